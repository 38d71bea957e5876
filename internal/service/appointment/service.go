package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// Service schedules follow-up appointments, typically created from discharge
// instructions. Doctor double-booking is rejected at save time.
type Service struct {
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.Validation("end_time", "end time must be after start time")
	}
	if _, err := s.patientRepo.Get(ctx, req.PatientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	conflict, err := s.appointmentRepo.CheckConflict(ctx, req.DoctorID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check appointment conflict: %w", err)
	}
	if conflict {
		return nil, apperrors.Conflict("doctor already has an appointment in that time range")
	}

	now := time.Now()
	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		Department: req.Department,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.AppointmentStatusScheduled,
		Reason:     req.Reason,
		Notes:      req.Notes,
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return appointment, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if appointment.Status == model.AppointmentStatusCancelled || appointment.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment is already %s", appointment.Status))
	}

	if req.StartTime != nil {
		appointment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appointment.EndTime = *req.EndTime
	}
	if !appointment.EndTime.After(appointment.StartTime) {
		return nil, apperrors.Validation("end_time", "end time must be after start time")
	}

	if req.StartTime != nil || req.EndTime != nil {
		conflict, err := s.appointmentRepo.CheckConflict(ctx, appointment.DoctorID, appointment.StartTime, appointment.EndTime, &appointment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check appointment conflict: %w", err)
		}
		if conflict {
			return nil, apperrors.Conflict("doctor already has an appointment in that time range")
		}
	}

	if req.Status != nil {
		if *req.Status == model.AppointmentStatusCancelled && req.CancelReason == nil {
			return nil, apperrors.Validation("cancel_reason", "cancel reason is required when cancelling")
		}
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.CancelReason != nil {
		appointment.CancelReason = req.CancelReason
	}
	appointment.UpdatedAt = time.Now()

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.appointmentRepo.Get(ctx, id); err != nil {
		return apperrors.NotFound("appointment", err)
	}
	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointmentRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
