package inbound

import (
	"context"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/usecase"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgrouter"
)

type uc interface {
	State(ctx context.Context, sessionID string) (usecase.Snapshot, error)
	SubmitDropped(ctx context.Context, sessionID string, files []entity.CandidateFile) (usecase.Snapshot, error)
	SubmitPicked(ctx context.Context, sessionID string, file *entity.CandidateFile) (usecase.Snapshot, error)
	Clear(ctx context.Context, sessionID string) (usecase.Snapshot, error)
	Aggregate(ctx context.Context, sessionID string) (entity.AggregationResult, error)
	Dismiss(ctx context.Context, sessionID string) (usecase.Snapshot, error)
	Total(ctx context.Context, file entity.CandidateFile) (entity.AggregationResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, sess *Sessions) {
	end := &HTTPEndpoint{uc: uc}
	session := sess.Middleware()

	r.GET("/api/v1/widget", end.Widget, session)

	r.POST("/api/v1/intake/dropped", end.SubmitDropped, session) // multipart "files"
	r.POST("/api/v1/intake/picked", end.SubmitPicked, session)   // multipart "file"
	r.DELETE("/api/v1/intake", end.Clear, session)

	r.POST("/api/v1/aggregations", end.Aggregate, session)
	r.DELETE("/api/v1/summary", end.Dismiss, session)

	r.POST("/api/v1/totals", end.Totals) // multipart "file" or a raw text/csv body
}
