// Package server serves the planner over Connect with a JSON codec.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/planner"
)

const PlanServiceName = "studyplan.v1.PlanService"

const (
	GetDailySummaryProcedure   = "/" + PlanServiceName + "/GetDailySummary"
	GetPlanProcedure           = "/" + PlanServiceName + "/GetPlan"
	UpdateProgressProcedure    = "/" + PlanServiceName + "/UpdateProgress"
	MarkDayMissedProcedure     = "/" + PlanServiceName + "/MarkDayMissed"
	ClassifyTaskProcedure      = "/" + PlanServiceName + "/ClassifyTask"
	RegisterMaterialProcedure  = "/" + PlanServiceName + "/RegisterMaterial"
	GetCompanionTasksProcedure = "/" + PlanServiceName + "/GetCompanionTasks"
	ListMaterialsProcedure     = "/" + PlanServiceName + "/ListMaterials"
)

// Planner is the part of planner.Service the handler serves.
type Planner interface {
	Validate(input any) error
	Now() time.Time
	Today() plan.Date
	Materials(ctx context.Context) ([]material.Record, error)
	Day(ctx context.Context, date plan.Date) (planner.DailyView, error)
	Plan(ctx context.Context, id string) (material.Record, []plan.PlanEntry, error)
	RegisterMaterial(ctx context.Context, input planner.RegisterInput) (planner.Result, error)
	UpdateProgress(ctx context.Context, id string, progress int) (planner.Result, error)
	MarkDayMissed(ctx context.Context, id string, missed plan.Date) (planner.Result, error)
	Companion(ctx context.Context) ([]plan.CompanionTask, error)
}

// PlanHandler implements the PlanService procedures.
type PlanHandler struct {
	planner Planner
}

func NewPlanHandler(p Planner) *PlanHandler {
	return &PlanHandler{planner: p}
}

// NewPlanServiceHandler builds an HTTP handler serving every PlanService procedure.
// It returns the path to mount the handler on.
func NewPlanServiceHandler(h *PlanHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetDailySummaryProcedure, connect.NewUnaryHandler(GetDailySummaryProcedure, h.GetDailySummary, opts...))
	mux.Handle(GetPlanProcedure, connect.NewUnaryHandler(GetPlanProcedure, h.GetPlan, opts...))
	mux.Handle(UpdateProgressProcedure, connect.NewUnaryHandler(UpdateProgressProcedure, h.UpdateProgress, opts...))
	mux.Handle(MarkDayMissedProcedure, connect.NewUnaryHandler(MarkDayMissedProcedure, h.MarkDayMissed, opts...))
	mux.Handle(ClassifyTaskProcedure, connect.NewUnaryHandler(ClassifyTaskProcedure, h.ClassifyTask, opts...))
	mux.Handle(RegisterMaterialProcedure, connect.NewUnaryHandler(RegisterMaterialProcedure, h.RegisterMaterial, opts...))
	mux.Handle(GetCompanionTasksProcedure, connect.NewUnaryHandler(GetCompanionTasksProcedure, h.GetCompanionTasks, opts...))
	mux.Handle(ListMaterialsProcedure, connect.NewUnaryHandler(ListMaterialsProcedure, h.ListMaterials, opts...))
	return "/" + PlanServiceName + "/", mux
}

// GetDailySummary returns the plan entries and calendar tasks of a date.
func (h *PlanHandler) GetDailySummary(
	ctx context.Context,
	req *connect.Request[GetDailySummaryRequest],
) (*connect.Response[GetDailySummaryResponse], error) {
	date := req.Msg.Date
	if date.IsZero() {
		date = h.planner.Today()
	}
	view, err := h.planner.Day(ctx, date)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetDailySummaryResponse{DailyView: view}), nil
}

// GetPlan returns a material and its persisted plan entries.
func (h *PlanHandler) GetPlan(
	ctx context.Context,
	req *connect.Request[GetPlanRequest],
) (*connect.Response[GetPlanResponse], error) {
	if err := h.planner.Validate(req.Msg); err != nil {
		return nil, toConnectError(ctx, err)
	}
	record, entries, err := h.planner.Plan(ctx, req.Msg.MaterialID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetPlanResponse{Material: record, Entries: entries}), nil
}

// UpdateProgress records new progress and rebalances the plan from today.
func (h *PlanHandler) UpdateProgress(
	ctx context.Context,
	req *connect.Request[UpdateProgressRequest],
) (*connect.Response[PlanResult], error) {
	if err := h.planner.Validate(req.Msg); err != nil {
		return nil, toConnectError(ctx, err)
	}
	result, err := h.planner.UpdateProgress(ctx, req.Msg.MaterialID, req.Msg.Progress)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&PlanResult{Result: result}), nil
}

// MarkDayMissed redistributes the work of a missed day. The date defaults to yesterday.
func (h *PlanHandler) MarkDayMissed(
	ctx context.Context,
	req *connect.Request[MarkDayMissedRequest],
) (*connect.Response[PlanResult], error) {
	if err := h.planner.Validate(req.Msg); err != nil {
		return nil, toConnectError(ctx, err)
	}
	missed := req.Msg.Date
	if missed.IsZero() {
		missed = h.planner.Today().AddDays(-1)
	}
	result, err := h.planner.MarkDayMissed(ctx, req.Msg.MaterialID, missed)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&PlanResult{Result: result}), nil
}

// ClassifyTask reports whether a task is on track, past its date or past its time slot.
func (h *PlanHandler) ClassifyTask(
	_ context.Context,
	req *connect.Request[ClassifyTaskRequest],
) (*connect.Response[ClassifyTaskResponse], error) {
	var now time.Time
	if req.Msg.Now != nil {
		now = *req.Msg.Now
	} else {
		now = h.planner.Now()
	}
	task := req.Msg.Task
	return connect.NewResponse(&ClassifyTaskResponse{
		Status:     plan.Classify(task, now),
		Overdue:    task.IsOverdue(now),
		InProgress: task.InProgress(now),
	}), nil
}

// RegisterMaterial stores a new material with its initial plan.
func (h *PlanHandler) RegisterMaterial(
	ctx context.Context,
	req *connect.Request[RegisterMaterialRequest],
) (*connect.Response[PlanResult], error) {
	result, err := h.planner.RegisterMaterial(ctx, req.Msg.RegisterInput)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&PlanResult{Result: result}), nil
}

// GetCompanionTasks returns today's amount per active material.
func (h *PlanHandler) GetCompanionTasks(
	ctx context.Context,
	_ *connect.Request[GetCompanionTasksRequest],
) (*connect.Response[GetCompanionTasksResponse], error) {
	tasks, err := h.planner.Companion(ctx)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &GetCompanionTasksResponse{Tasks: tasks, Messages: make([]string, 0, len(tasks))}
	for _, t := range tasks {
		resp.Messages = append(resp.Messages, t.Message())
	}
	return connect.NewResponse(resp), nil
}

func (h *PlanHandler) ListMaterials(
	ctx context.Context,
	_ *connect.Request[ListMaterialsRequest],
) (*connect.Response[ListMaterialsResponse], error) {
	records, err := h.planner.Materials(ctx)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListMaterialsResponse{Materials: records}), nil
}

// toConnectError maps planner errors onto Connect codes with error details where a client can act on them.
func toConnectError(ctx context.Context, err error) *connect.Error {
	var inputErr *planner.InputError
	if errors.As(err, &inputErr) {
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		var fieldViolations []*errdetails.BadRequest_FieldViolation
		for _, f := range inputErr.Fields {
			fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       f.Field,
				Description: f.Message,
			})
		}
		if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: fieldViolations,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	}

	var cfgErr *plan.ConfigurationError
	if errors.As(err, &cfgErr) {
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		if detail, detailErr := connect.NewErrorDetail(&errdetails.PreconditionFailure{
			Violations: []*errdetails.PreconditionFailure_Violation{{
				Type:        "PLAN_CONFIGURATION",
				Subject:     cfgErr.MaterialID,
				Description: cfgErr.Reason,
			}},
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	}

	switch {
	case errors.Is(err, material.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, planner.ErrArchived):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, material.ErrVersionConflict):
		connectErr := connect.NewError(connect.CodeAborted, err)
		if detail, detailErr := connect.NewErrorDetail(&errdetails.RetryInfo{
			RetryDelay: durationpb.New(100 * time.Millisecond),
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	slog.Default().ErrorContext(ctx, "request failed", "error", err)
	return connect.NewError(connect.CodeInternal, fmt.Errorf("internal error"))
}
