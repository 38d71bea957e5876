package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Stranger261/hospital-er-api/config"
	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/internal/repository/postgres"
	"github.com/Stranger261/hospital-er-api/pkg/security"
)

// Seeds a development database with staff, doctors, patients, the bed
// hierarchy and a handful of waiting visits.
func main() {
	patients := flag.Int("patients", 25, "number of patients to create")
	doctors := flag.Int("doctors", 6, "number of ER doctors to create")
	visits := flag.Int("visits", 10, "number of waiting visits to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	faker := gofakeit.New(0)

	staffRepo := postgres.NewStaffRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	bedRepo := postgres.NewBedRepository(db)

	hasher := security.NewBcryptHasher(0)
	hash, err := hasher.Hash("password123")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash seed password")
	}

	now := time.Now()
	newBase := func() model.Base {
		return model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	}

	// Admin plus one nurse; every seeded account shares the same password.
	admin := &model.Staff{
		Base:         newBase(),
		Email:        "admin@hospital.local",
		FirstName:    "Admin",
		LastName:     "User",
		Role:         model.StaffRoleAdmin,
		PasswordHash: hash,
		Status:       "active",
	}
	nurse := &model.Staff{
		Base:         newBase(),
		Email:        "nurse@hospital.local",
		FirstName:    faker.FirstName(),
		LastName:     faker.LastName(),
		Role:         model.StaffRoleNurse,
		PasswordHash: hash,
		Status:       "active",
	}
	for _, s := range []*model.Staff{admin, nurse} {
		if err := staffRepo.Create(ctx, s); err != nil {
			log.Fatal().Err(err).Str("email", s.Email).Msg("failed to seed staff")
		}
	}

	specializations := []string{"Emergency Medicine", "Trauma Surgery", "Internal Medicine", "Pediatrics"}
	for i := 0; i < *doctors; i++ {
		staff := &model.Staff{
			Base:         newBase(),
			Email:        fmt.Sprintf("doctor%d@hospital.local", i+1),
			FirstName:    faker.FirstName(),
			LastName:     faker.LastName(),
			Role:         model.StaffRoleDoctor,
			PasswordHash: hash,
			Status:       "active",
		}
		if err := staffRepo.Create(ctx, staff); err != nil {
			log.Fatal().Err(err).Msg("failed to seed doctor staff")
		}

		shiftStart := now.Add(-2 * time.Hour)
		shiftEnd := now.Add(10 * time.Hour)
		doctor := &model.ERDoctor{
			Base:           newBase(),
			StaffID:        staff.ID,
			FirstName:      staff.FirstName,
			LastName:       staff.LastName,
			Specialization: specializations[i%len(specializations)],
			IsOnShift:      i%3 != 2,
			IsAvailable:    i%2 == 0,
			ShiftStart:     &shiftStart,
			ShiftEnd:       &shiftEnd,
		}
		if err := doctorRepo.Create(ctx, doctor); err != nil {
			log.Fatal().Err(err).Msg("failed to seed er doctor")
		}
	}

	patientIDs := make([]uuid.UUID, 0, *patients)
	for i := 0; i < *patients; i++ {
		dob := faker.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-1, 0, 0))
		p := &model.Patient{
			Base:        newBase(),
			MRN:         fmt.Sprintf("MRN-%d-%06d", now.Year(), i+1),
			FirstName:   faker.FirstName(),
			LastName:    faker.LastName(),
			DateOfBirth: &dob,
			Gender:      faker.Gender(),
			Phone:       faker.Phone(),
			Email:       faker.Email(),
			Address:     faker.Address().Address,
			Status:      string(model.PatientStatusActive),
		}
		if err := patientRepo.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Msg("failed to seed patient")
		}
		patientIDs = append(patientIDs, p.ID)
	}

	seedBeds(ctx, bedRepo, newBase)

	complaints := []string{
		"chest pain", "shortness of breath", "abdominal pain",
		"head injury", "high fever", "laceration on left arm",
	}
	modes := []string{"walk_in", "ambulance", "police", "transfer"}
	for i := 0; i < *visits && i < len(patientIDs); i++ {
		arrival := now.Add(-time.Duration(faker.Number(5, 180)) * time.Minute)
		v := &model.ERVisit{
			Base:           newBase(),
			ERNumber:       fmt.Sprintf("ER-%d-%05d", now.Year(), i+1),
			PatientID:      patientIDs[i],
			TriageLevel:    faker.Number(1, 5),
			ChiefComplaint: complaints[i%len(complaints)],
			ArrivalMode:    modes[i%len(modes)],
			ArrivalTime:    arrival,
			ERStatus:       model.ERStatusWaiting,
		}
		if err := visitRepo.Create(ctx, v); err != nil {
			log.Fatal().Err(err).Msg("failed to seed visit")
		}
	}

	log.Info().
		Int("patients", *patients).
		Int("doctors", *doctors).
		Int("visits", *visits).
		Msg("seed complete")
}

func seedBeds(ctx context.Context, repo repository.BedRepository, newBase func() model.Base) {
	wards := []string{"Medical", "Surgical", "ICU"}
	for f := 1; f <= 3; f++ {
		floor := &model.Floor{
			Base:   newBase(),
			Name:   fmt.Sprintf("Floor %d", f),
			Number: f,
		}
		if err := repo.CreateFloor(ctx, floor); err != nil {
			log.Fatal().Err(err).Msg("failed to seed floor")
		}
		for r := 1; r <= 4; r++ {
			room := &model.Room{
				Base:       newBase(),
				FloorID:    floor.ID,
				RoomNumber: fmt.Sprintf("%d0%d", f, r),
				Ward:       wards[(f-1)%len(wards)],
				Capacity:   4,
			}
			if err := repo.CreateRoom(ctx, room); err != nil {
				log.Fatal().Err(err).Msg("failed to seed room")
			}
			for b := 1; b <= 4; b++ {
				bed := &model.Bed{
					Base:   newBase(),
					RoomID: room.ID,
					Label:  fmt.Sprintf("%s-%c", room.RoomNumber, 'A'+b-1),
					Status: model.BedStatusAvailable,
				}
				if err := repo.CreateBed(ctx, bed); err != nil {
					log.Fatal().Err(err).Msg("failed to seed bed")
				}
			}
		}
	}
}
