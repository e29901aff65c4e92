package server

import (
	"time"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/planner"
)

type GetDailySummaryRequest struct {
	// Date defaults to today.
	Date plan.Date `json:"date"`
}

type GetDailySummaryResponse struct {
	planner.DailyView
}

type GetPlanRequest struct {
	MaterialID string `json:"materialId" validate:"required"`
}

type GetPlanResponse struct {
	Material material.Record  `json:"material"`
	Entries  []plan.PlanEntry `json:"entries"`
}

type UpdateProgressRequest struct {
	MaterialID string `json:"materialId" validate:"required"`
	Progress   int    `json:"progress"`
}

type MarkDayMissedRequest struct {
	MaterialID string    `json:"materialId" validate:"required"`
	Date       plan.Date `json:"date"`
}

type RegisterMaterialRequest struct {
	planner.RegisterInput
}

// PlanResult is the response of every procedure that regenerates a plan.
type PlanResult struct {
	planner.Result
}

type ClassifyTaskRequest struct {
	Task plan.ScheduledTask `json:"task"`
	// Now defaults to the server clock.
	Now *time.Time `json:"now"`
}

type ClassifyTaskResponse struct {
	Status     plan.TaskStatus `json:"status"`
	Overdue    bool            `json:"overdue"`
	InProgress bool            `json:"inProgress"`
}

type GetCompanionTasksRequest struct{}

type GetCompanionTasksResponse struct {
	Tasks    []plan.CompanionTask `json:"tasks"`
	Messages []string             `json:"messages"`
}

type ListMaterialsRequest struct{}

type ListMaterialsResponse struct {
	Materials []material.Record `json:"materials"`
}
