package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/rpcapi"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/services"
)

// toStatus maps service errors onto gRPC codes. Unexpected errors are
// logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrConsistencyGap):
		s.logger.Warn(ctx, "index lagging behind records", "error", err)
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "rpc failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func toWireApplication(a *models.Application) *rpcapi.Application {
	return &rpcapi.Application{
		ID:            a.ID,
		JobID:         a.JobID,
		JobTitle:      a.JobTitle,
		Company:       a.Company,
		ApplyURL:      a.ApplyURL,
		Status:        string(a.Status),
		Notes:         a.Notes,
		CoverLetter:   a.CoverLetter,
		InterviewDate: a.InterviewDate,
		AppliedAt:     a.AppliedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toWireStats(st models.ApplicationStats) rpcapi.Stats {
	return rpcapi.Stats{
		Total:     st.Total,
		Draft:     st.Draft,
		Applied:   st.Applied,
		Interview: st.Interview,
		Offer:     st.Offer,
		Rejected:  st.Rejected,
		Withdrawn: st.Withdrawn,
	}
}

func toAuthResponse(res *services.AuthResult) *rpcapi.AuthResponse {
	return &rpcapi.AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		UserID:    res.User.ID,
		Email:     res.User.Email,
		Name:      res.User.Name,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpcapi.RegisterRequest) (*rpcapi.AuthResponse, error) {

	res, err := s.svc.Users.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", res.User.ID)
	return toAuthResponse(res), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpcapi.LoginRequest) (*rpcapi.AuthResponse, error) {

	res, err := s.svc.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return toAuthResponse(res), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.Empty, error) {

	token, _ := ctx.Value(tokenKey).(string)
	if err := s.svc.Users.Logout(ctx, token); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.PingResponse, error) {

	if err := s.svc.Repositories.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "ping failed", "error", err)
		return nil, status.Error(codes.Unavailable, "storage unavailable")
	}

	return &rpcapi.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Apply(ctx context.Context, req *rpcapi.ApplyRequest) (*rpcapi.ApplyResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Applications.Create(ctx, p, services.CreateInput{
		JobID:               req.JobID,
		InitialStatus:       req.InitialStatus,
		GenerateCoverLetter: req.GenerateCoverLetter,
		CustomMessage:       req.CustomMessage,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.ApplyResponse{Application: toWireApplication(res.Application), ApplyURL: res.ApplyURL}, nil
}

func (s *GRPCServer) TransitionStatus(ctx context.Context, req *rpcapi.TransitionRequest) (*rpcapi.ApplicationResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	app, err := s.svc.Applications.TransitionStatus(ctx, p, services.TransitionInput{
		ApplicationID: req.ApplicationID,
		Status:        req.Status,
		Notes:         req.Notes,
		InterviewDate: req.InterviewDate,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.ApplicationResponse{Application: toWireApplication(app)}, nil
}

func (s *GRPCServer) GetApplication(ctx context.Context, req *rpcapi.GetApplicationRequest) (*rpcapi.ApplicationResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	app, err := s.svc.Applications.Get(ctx, p, req.ApplicationID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.ApplicationResponse{Application: toWireApplication(app)}, nil
}

func (s *GRPCServer) ListApplications(ctx context.Context, req *rpcapi.ListApplicationsRequest) (*rpcapi.ListApplicationsResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	apps, err := s.svc.Applications.List(ctx, p, req.Status)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	stats, err := s.svc.Applications.Stats(ctx, p)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := &rpcapi.ListApplicationsResponse{Applications: make([]*rpcapi.Application, 0, len(apps)), Stats: toWireStats(stats)}
	for _, a := range apps {
		out.Applications = append(out.Applications, toWireApplication(a))
	}
	return out, nil
}

func (s *GRPCServer) GetStats(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.StatsResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.svc.Applications.Stats(ctx, p)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.StatsResponse{Stats: toWireStats(stats)}, nil
}

func (s *GRPCServer) Reconcile(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.ReconcileResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Applications.Reconcile(ctx, p)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.ReconcileResponse{Changed: res.Changed, Stats: toWireStats(res.Stats)}, nil
}
