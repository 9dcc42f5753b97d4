package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/unireg/registrar/internal/config"
	"github.com/unireg/registrar/internal/database"
	"github.com/unireg/registrar/internal/logger"
)

const (
	demoDepartment   = 10
	demoStudent      = 1
	demoInstructor   = 201
	introCourse      = 301
	advancedCourse   = 302
	demoRoom         = 401
	demoCapacity     = 30
	introSchedule    = 501
	advancedSchedule = 502

	// Placeholder students fill the intro section up to one free seat.
	placeholderBase  = 1000
	placeholderCount = demoCapacity - 1
)

type statement struct {
	sql  string
	args []any
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		return
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding demo catalog ===")

	catalog := []statement{
		{`INSERT INTO department (department_id, dept_name, building)
		  VALUES ($1, 'Computer Science', 'Engineering Hall')
		  ON CONFLICT (department_id) DO NOTHING`, []any{demoDepartment}},
		{`INSERT INTO student (student_id, name, email, year, phone, department_id)
		  VALUES ($1, 'Demo Student', 'demo.student@example.edu', 3, '555-0100', $2)
		  ON CONFLICT (student_id) DO NOTHING`, []any{demoStudent, demoDepartment}},
		{`INSERT INTO instructor (instructor_id, name, email, specialization, department_id)
		  VALUES ($1, 'Demo Instructor', 'demo.instructor@example.edu', 'Systems', $2)
		  ON CONFLICT (instructor_id) DO NOTHING`, []any{demoInstructor, demoDepartment}},
		{`INSERT INTO course (course_id, course_name, credits, semester_offered, department_id, prerequisite_id)
		  VALUES ($1, 'Programming Fundamentals', 3, 'Fall', $2, NULL)
		  ON CONFLICT (course_id) DO NOTHING`, []any{introCourse, demoDepartment}},
		{`INSERT INTO course (course_id, course_name, credits, semester_offered, department_id, prerequisite_id)
		  VALUES ($1, 'Data Structures', 4, 'Spring', $2, $3)
		  ON CONFLICT (course_id) DO NOTHING`, []any{advancedCourse, demoDepartment, introCourse}},
		{`INSERT INTO classroom (room_id, location, capacity)
		  VALUES ($1, 'Room 101', $2)
		  ON CONFLICT (room_id) DO NOTHING`, []any{demoRoom, demoCapacity}},
		{`INSERT INTO course_schedule (schedule_id, course_id, instructor_id, room_id, "day", "time")
		  VALUES ($1, $2, $3, $4, 'Monday', '09:00')
		  ON CONFLICT (schedule_id) DO NOTHING`, []any{introSchedule, introCourse, demoInstructor, demoRoom}},
		{`INSERT INTO course_schedule (schedule_id, course_id, instructor_id, room_id, "day", "time")
		  VALUES ($1, $2, $3, $4, 'Wednesday', '13:00')
		  ON CONFLICT (schedule_id) DO NOTHING`, []any{advancedSchedule, advancedCourse, demoInstructor, demoRoom}},
	}

	err = database.WithTx(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, st := range catalog {
			if _, err := tx.Exec(ctx, st.sql, st.args...); err != nil {
				return err
			}
		}

		for i := 1; i <= placeholderCount; i++ {
			id := placeholderBase + i
			if _, err := tx.Exec(ctx,
				`INSERT INTO student (student_id, name, year, department_id)
				 VALUES ($1, $2, 1, $3)
				 ON CONFLICT (student_id) DO NOTHING`,
				id, fmt.Sprintf("Placeholder Student %02d", i), demoDepartment,
			); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO registration (student_id, schedule_id, semester, grade)
				 SELECT $1, $2, $3, NULL
				 WHERE NOT EXISTS (
					SELECT 1 FROM registration WHERE student_id = $1 AND schedule_id = $2
				 )`,
				id, introSchedule, cfg.DefaultSemester,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed catalog")
	}

	var enrolled int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registration WHERE schedule_id = $1`, introSchedule,
	).Scan(&enrolled); err != nil {
		log.Fatal().Err(err).Msg("Failed to count enrolment")
	}

	fmt.Printf("\nSeed completed! Schedule %d has %d/%d seats taken.\n", introSchedule, enrolled, demoCapacity)
}
