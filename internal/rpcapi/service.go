package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jobassist.v1.ApplicationService"

const (
	MethodRegister         = "Register"
	MethodLogin            = "Login"
	MethodLogout           = "Logout"
	MethodPing             = "Ping"
	MethodApply            = "Apply"
	MethodTransitionStatus = "TransitionStatus"
	MethodGetApplication   = "GetApplication"
	MethodListApplications = "ListApplications"
	MethodGetStats         = "GetStats"
	MethodReconcile        = "Reconcile"
)

// FullMethod returns the path gRPC uses for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Server is implemented by the gRPC transport of the server.
type Server interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
	Apply(context.Context, *ApplyRequest) (*ApplyResponse, error)
	TransitionStatus(context.Context, *TransitionRequest) (*ApplicationResponse, error)
	GetApplication(context.Context, *GetApplicationRequest) (*ApplicationResponse, error)
	ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error)
	GetStats(context.Context, *Empty) (*StatsResponse, error)
	Reconcile(context.Context, *Empty) (*ReconcileResponse, error)
}

func unary[Req, Resp any](method string, call func(Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, Server.Register),
		unary(MethodLogin, Server.Login),
		unary(MethodLogout, Server.Logout),
		unary(MethodPing, Server.Ping),
		unary(MethodApply, Server.Apply),
		unary(MethodTransitionStatus, Server.TransitionStatus),
		unary(MethodGetApplication, Server.GetApplication),
		unary(MethodListApplications, Server.ListApplications),
		unary(MethodGetStats, Server.GetStats),
		unary(MethodReconcile, Server.Reconcile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobassist/v1/application.proto",
}

func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a typed stub over a client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *Client) Logout(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, MethodLogout, &Empty{}, opts)
	return err
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, &Empty{}, opts)
}

func (c *Client) Apply(ctx context.Context, in *ApplyRequest, opts ...grpc.CallOption) (*ApplyResponse, error) {
	return invoke[ApplyResponse](ctx, c.cc, MethodApply, in, opts)
}

func (c *Client) TransitionStatus(ctx context.Context, in *TransitionRequest, opts ...grpc.CallOption) (*ApplicationResponse, error) {
	return invoke[ApplicationResponse](ctx, c.cc, MethodTransitionStatus, in, opts)
}

func (c *Client) GetApplication(ctx context.Context, in *GetApplicationRequest, opts ...grpc.CallOption) (*ApplicationResponse, error) {
	return invoke[ApplicationResponse](ctx, c.cc, MethodGetApplication, in, opts)
}

func (c *Client) ListApplications(ctx context.Context, in *ListApplicationsRequest, opts ...grpc.CallOption) (*ListApplicationsResponse, error) {
	return invoke[ListApplicationsResponse](ctx, c.cc, MethodListApplications, in, opts)
}

func (c *Client) GetStats(ctx context.Context, opts ...grpc.CallOption) (*StatsResponse, error) {
	return invoke[StatsResponse](ctx, c.cc, MethodGetStats, &Empty{}, opts)
}

func (c *Client) Reconcile(ctx context.Context, opts ...grpc.CallOption) (*ReconcileResponse, error) {
	return invoke[ReconcileResponse](ctx, c.cc, MethodReconcile, &Empty{}, opts)
}
