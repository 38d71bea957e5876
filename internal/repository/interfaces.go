package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
)

// All repository interfaces in one file
type (
	// VisitRepository owns ER visit rows and the board queries.
	VisitRepository interface {
		Create(ctx context.Context, visit *model.ERVisit) error
		Get(ctx context.Context, id uuid.UUID) (*model.ERVisit, error)
		List(ctx context.Context, filters *model.ERVisitFilters) ([]*model.ERVisit, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ERVisit, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.ERStatus, dispositionType *string) error
		SetDoctor(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error
		ClearDoctor(ctx context.Context, id uuid.UUID) error
		SetTriage(ctx context.Context, id uuid.UUID, triageID uuid.UUID, triageLevel int) error
		TransferToPatient(ctx context.Context, fromPatientID, toPatientID uuid.UUID) error
		NextERSequence(ctx context.Context, year int) (int64, error)
		CountsByStatusAndLevel(ctx context.Context, since time.Time) (*model.BoardStats, error)
	}

	TriageRepository interface {
		Create(ctx context.Context, triage *model.TriageRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error)
		GetByVisit(ctx context.Context, visitID uuid.UUID) (*model.TriageRecord, error)
		Update(ctx context.Context, triage *model.TriageRecord) error
	}

	TreatmentRepository interface {
		Create(ctx context.Context, treatment *model.TreatmentRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.TreatmentRecord, error)
		Update(ctx context.Context, treatment *model.TreatmentRecord) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*model.TreatmentRecord, error)
	}

	DispositionRepository interface {
		Create(ctx context.Context, disposition *model.Disposition) error
		GetByVisit(ctx context.Context, visitID uuid.UUID) (*model.Disposition, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		NextTempSequence(ctx context.Context) (int64, error)
		NextMRNSequence(ctx context.Context) (int64, error)
		GetMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		AddMedicalRecord(ctx context.Context, record *model.MedicalRecord) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.ERDoctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.ERDoctor, error)
		List(ctx context.Context, filters *model.ERDoctorFilters) ([]*model.ERDoctor, error)
		SetShift(ctx context.Context, id uuid.UUID, onShift bool, start, end *time.Time) error
		SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
		IncrementActivePatients(ctx context.Context, id uuid.UUID, delta int) error
	}

	BedRepository interface {
		CreateFloor(ctx context.Context, floor *model.Floor) error
		CreateRoom(ctx context.Context, room *model.Room) error
		CreateBed(ctx context.Context, bed *model.Bed) error
		ListFloors(ctx context.Context) ([]*model.Floor, error)
		ListRooms(ctx context.Context, floorID uuid.UUID) ([]*model.Room, error)
		ListBeds(ctx context.Context, roomID uuid.UUID, availableOnly bool) ([]*model.Bed, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Bed, error)
		SetStatus(ctx context.Context, id uuid.UUID, status model.BedStatus, patientID *uuid.UUID) error
	}

	AllergyRepository interface {
		Create(ctx context.Context, allergy *model.Allergy) error
		Get(ctx context.Context, id uuid.UUID) (*model.Allergy, error)
		Update(ctx context.Context, allergy *model.Allergy) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Allergy, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		CheckConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	}

	StaffRepository interface {
		Create(ctx context.Context, staff *model.Staff) error
		Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
		GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}
)
