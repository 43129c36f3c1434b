// Package accounts describes the medcompanion.Accounts gRPC service: its
// messages, server registration and client stub. On the wire every request
// and response is a google.protobuf.Struct.
package accounts

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/medcompanion/internal/api/grpc/codec"
)

const ServiceName = "medcompanion.Accounts"

const (
	FindByEmailFullMethodName             = "/" + ServiceName + "/FindByEmail"
	CreateCredentialFullMethodName        = "/" + ServiceName + "/CreateCredential"
	GetProfileFullMethodName              = "/" + ServiceName + "/GetProfile"
	SaveProfileFullMethodName             = "/" + ServiceName + "/SaveProfile"
	FindDoctorByPatientCodeFullMethodName = "/" + ServiceName + "/FindDoctorByPatientCode"
)

// AccountsServer is the server API for the Accounts service.
type AccountsServer interface {
	FindByEmail(context.Context, *FindByEmailRequest) (*FindByEmailResponse, error)
	CreateCredential(context.Context, *CreateCredentialRequest) (*Empty, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	SaveProfile(context.Context, *SaveProfileRequest) (*Empty, error)
	FindDoctorByPatientCode(context.Context, *FindDoctorByPatientCodeRequest) (*FindDoctorByPatientCodeResponse, error)
}

// UnimplementedAccountsServer answers every call with codes.Unimplemented.
type UnimplementedAccountsServer struct{}

func (UnimplementedAccountsServer) FindByEmail(context.Context, *FindByEmailRequest) (*FindByEmailResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindByEmail not implemented")
}

func (UnimplementedAccountsServer) CreateCredential(context.Context, *CreateCredentialRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCredential not implemented")
}

func (UnimplementedAccountsServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}

func (UnimplementedAccountsServer) SaveProfile(context.Context, *SaveProfileRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveProfile not implemented")
}

func (UnimplementedAccountsServer) FindDoctorByPatientCode(context.Context, *FindDoctorByPatientCodeRequest) (*FindDoctorByPatientCodeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindDoctorByPatientCode not implemented")
}

// ServiceDesc is the grpc.ServiceDesc for the Accounts service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FindByEmail",
			Handler:    unaryHandler(FindByEmailFullMethodName, AccountsServer.FindByEmail),
		},
		{
			MethodName: "CreateCredential",
			Handler:    unaryHandler(CreateCredentialFullMethodName, AccountsServer.CreateCredential),
		},
		{
			MethodName: "GetProfile",
			Handler:    unaryHandler(GetProfileFullMethodName, AccountsServer.GetProfile),
		},
		{
			MethodName: "SaveProfile",
			Handler:    unaryHandler(SaveProfileFullMethodName, AccountsServer.SaveProfile),
		},
		{
			MethodName: "FindDoctorByPatientCode",
			Handler:    unaryHandler(FindDoctorByPatientCodeFullMethodName, AccountsServer.FindDoctorByPatientCode),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "medcompanion/accounts",
}

// RegisterAccountsServer registers srv on s.
func RegisterAccountsServer(s grpc.ServiceRegistrar, srv AccountsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AccountsServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		wire := new(structpb.Struct)
		if err := dec(wire); err != nil {
			return nil, err
		}
		in := new(Req)
		if err := codec.Decode(wire, in); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(AccountsServer), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			out, err := codec.Encode(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AccountsClient is the client API for the Accounts service.
type AccountsClient interface {
	FindByEmail(ctx context.Context, in *FindByEmailRequest, opts ...grpc.CallOption) (*FindByEmailResponse, error)
	CreateCredential(ctx context.Context, in *CreateCredentialRequest, opts ...grpc.CallOption) (*Empty, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error)
	SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*Empty, error)
	FindDoctorByPatientCode(ctx context.Context, in *FindDoctorByPatientCodeRequest, opts ...grpc.CallOption) (*FindDoctorByPatientCodeResponse, error)
}

type accountsClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountsClient returns a stub for the Accounts service on cc.
func NewAccountsClient(cc grpc.ClientConnInterface) AccountsClient {
	return &accountsClient{cc: cc}
}

func (c *accountsClient) FindByEmail(ctx context.Context, in *FindByEmailRequest, opts ...grpc.CallOption) (*FindByEmailResponse, error) {
	out := new(FindByEmailResponse)
	if err := c.invoke(ctx, FindByEmailFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsClient) CreateCredential(ctx context.Context, in *CreateCredentialRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, CreateCredentialFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	out := new(GetProfileResponse)
	if err := c.invoke(ctx, GetProfileFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsClient) SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, SaveProfileFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsClient) FindDoctorByPatientCode(ctx context.Context, in *FindDoctorByPatientCodeRequest, opts ...grpc.CallOption) (*FindDoctorByPatientCodeResponse, error) {
	out := new(FindDoctorByPatientCodeResponse)
	if err := c.invoke(ctx, FindDoctorByPatientCodeFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	req, err := codec.Encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	return codec.Decode(resp, out)
}
