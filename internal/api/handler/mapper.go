package handler

import (
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// --- Request → Service input ---

func toTaskInput(r taskRequest) ports.TaskInput {
	return ports.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		ProjectID:   r.ProjectID,
		Priority:    r.Priority,
		Status:      r.Status,
		DueDate:     r.DueDate,
		Notes:       r.Notes,
		ImageURL:    r.ImageURL,
	}
}

func toAssignInput(r assignRequest, taskID, assignorID string) ports.AssignInput {
	return ports.AssignInput{
		TaskID:     taskID,
		AssigneeID: r.AssignedTo,
		AssignorID: assignorID,
		ProjectID:  r.ProjectID,
		ClientID:   r.ClientID,
		StartDate:  r.StartDate,
		DueDate:    r.DueDate,
	}
}

func toProjectInput(r projectRequest) ports.ProjectInput {
	return ports.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		ClientID:    r.ClientID,
		ManagerID:   r.ManagerID,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

func toClientInput(r clientRequest) ports.ClientInput {
	return ports.ClientInput{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Description: r.Description,
		Status:      r.Status,
	}
}

// --- Service result → HTTP response ---

func toAssignResponse(r *ports.AssignResult) assignResponse {
	return assignResponse{
		Assignment: r.Assignment,
		Notified:   r.Notified,
		Warnings:   r.Warnings,
	}
}

func toReportResponse(r *ports.AssignmentReport) reportResponse {
	return reportResponse{Items: r.Items, TotalHours: r.TotalHours}
}

func toProjectFormResponse(f *ports.ProjectFormData) projectFormResponse {
	return projectFormResponse{Clients: f.Clients, Managers: f.Managers}
}
