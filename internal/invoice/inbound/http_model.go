package inbound

import (
	"net/http"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/usecase"
)

type File struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"size_label"`
	MediaType string `json:"media_type"`
}

type Result struct {
	RunID       int64   `json:"run_id,string"`
	FileName    string  `json:"file_name"`
	Column      string  `json:"column"`
	Total       float64 `json:"total"`
	Display     string  `json:"display"`
	Rows        int64   `json:"rows"`
	Coerced     int64   `json:"coerced"`
	ColumnFound bool    `json:"column_found"`
}

type WidgetResponse struct {
	File         *File   `json:"file"`
	CanAggregate bool    `json:"can_aggregate"`
	SummaryOpen  bool    `json:"summary_open"`
	Result       *Result `json:"result"`
	LastError    string  `json:"last_error,omitempty"`
	message      string
}

func (r WidgetResponse) Message() string {
	if r.message == "" {
		return "widget state"
	}
	return r.message
}

type AggregationResponse struct {
	Result
}

func (AggregationResponse) StatusCode() int {
	return http.StatusCreated
}

func (AggregationResponse) Message() string {
	return "aggregation completed"
}

type TotalResponse struct {
	Result
}

func (TotalResponse) Message() string {
	return "total computed"
}

func toWidgetResponse(s usecase.Snapshot, message string) WidgetResponse {
	resp := WidgetResponse{
		CanAggregate: s.CanAggregate,
		SummaryOpen:  s.SummaryOpen,
		LastError:    s.LastError,
		message:      message,
	}

	if s.File != nil {
		resp.File = &File{
			Name:      s.File.Name,
			Size:      s.File.Size,
			SizeLabel: s.File.SizeLabel,
			MediaType: s.File.MediaType,
		}
	}

	if s.Result != nil {
		res := toHTTPResult(*s.Result)
		resp.Result = &res
	}

	return resp
}

func toHTTPResult(r entity.AggregationResult) Result {
	return Result{
		RunID:       r.RunID,
		FileName:    r.FileName,
		Column:      r.Column,
		Total:       r.Total,
		Display:     r.Display,
		Rows:        r.Rows,
		Coerced:     r.Coerced,
		ColumnFound: r.ColumnFound,
	}
}
