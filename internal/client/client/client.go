package client

import (
	"context"

	"github.com/dmitrijs2005/jobassist/internal/rpcapi"
)

type Client interface {
	Close() error
	LoggedIn() bool
	Register(ctx context.Context, email, password, name string) (*rpcapi.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*rpcapi.AuthResponse, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Apply(ctx context.Context, req *rpcapi.ApplyRequest) (*rpcapi.ApplyResponse, error)
	Transition(ctx context.Context, req *rpcapi.TransitionRequest) (*rpcapi.Application, error)
	Get(ctx context.Context, id string) (*rpcapi.Application, error)
	List(ctx context.Context, status string) (*rpcapi.ListApplicationsResponse, error)
	Stats(ctx context.Context) (rpcapi.Stats, error)
	Reconcile(ctx context.Context) (*rpcapi.ReconcileResponse, error)
}
