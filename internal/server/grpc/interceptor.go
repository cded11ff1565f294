package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/rpcapi"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

type ctxKey string

const (
	principalKey ctxKey = "principal"
	tokenKey     ctxKey = "token"
)

// publicMethods are served without an access token.
var publicMethods = map[string]bool{
	rpcapi.FullMethod(rpcapi.MethodRegister): true,
	rpcapi.FullMethod(rpcapi.MethodLogin):    true,
	rpcapi.FullMethod(rpcapi.MethodPing):     true,
}

func accessToken(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	token := accessToken(ctx)
	if len(token) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.svc.Users.Authenticate(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	ctx = context.WithValue(ctx, principalKey, p)
	ctx = context.WithValue(ctx, tokenKey, token)

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "rpc served",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

func principalFrom(ctx context.Context) (*models.Principal, error) {
	p, ok := ctx.Value(principalKey).(*models.Principal)
	if !ok || p == nil {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return p, nil
}
