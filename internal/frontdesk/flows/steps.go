package flows

import (
	"fmt"
	"net/http"
	"time"

	flow "medsched/internal/frontdesk/core"
	"medsched/pkg/client"
	"medsched/pkg/model"
)

const (
	DOCTOR_ID  = "doctor_id"
	PATIENT_ID = "patient_id"
	DAY        = "day"
	REASON     = "reason"
	DEPARTMENT = "department"

	SLOTS        = "slots"
	SCHEDULE     = "schedule"
	CHOSEN_SLOT  = "chosen_slot"
	APPOINTMENTS = "appointments"
	WAITLIST     = "waitlist"

	MaxAppointmentsPerRosterFetch = 100
	MaxWaitlistPerRosterFetch     = 50
)

func extractDay(ctx *flow.FlowContext) (string, error) {
	day := ctx.ExtractString(DAY)
	if flow.IsMissing(day) {
		return "", flow.MissingParamErr(DAY)
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return "", fmt.Errorf("param [%v] must be a YYYY-MM-DD date: %v", DAY, err)
	}
	return day, nil
}

func remoteErr(action string, resp *client.Response) error {
	return fmt.Errorf("%s failed with status %d: %s", action, resp.StatusCode, client.GetErrorMessage(resp))
}

// FetchDoctorSlots loads the doctor's generated slot grid for the requested
// day and stashes it under SLOTS.
func FetchDoctorSlots(ctx *flow.FlowContext) error {
	doctorID := ctx.ExtractString(DOCTOR_ID)
	if flow.IsMissing(doctorID) {
		return flow.MissingParamErr(DOCTOR_ID)
	}
	day, err := extractDay(ctx)
	if err != nil {
		return err
	}

	resp, err := ctx.Client.AppointmentClient.GetSlots(doctorID, day)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return remoteErr("slot lookup", resp)
	}

	slots, err := ctx.Client.AppointmentClient.DecodeSlots(resp)
	if err != nil {
		return err
	}

	ctx.Process[SLOTS] = slots
	return nil
}

// PickFirstAvailableSlot scans the fetched grid for the earliest slot that
// is free and still in the future.
func PickFirstAvailableSlot(ctx *flow.FlowContext) error {
	slots := ctx.Process[SLOTS].([]model.Slot)

	for _, slot := range slots {
		if slot.Available && !slot.Past {
			ctx.Process[CHOSEN_SLOT] = slot
			return nil
		}
	}

	return fmt.Errorf("no free slot left on %v for doctor %v", ctx.ExtractString(DAY), ctx.ExtractString(DOCTOR_ID))
}

// BookChosenSlot submits the booking for the slot picked earlier and puts
// the created appointment on the output.
func BookChosenSlot(ctx *flow.FlowContext) error {
	patientID := ctx.ExtractString(PATIENT_ID)
	if flow.IsMissing(patientID) {
		return flow.MissingParamErr(PATIENT_ID)
	}

	slot := ctx.Process[CHOSEN_SLOT].(model.Slot)

	body := model.Appointment{
		DoctorID:   slot.DoctorID,
		PatientID:  patientID,
		StartsAt:   slot.StartsAt,
		EndsAt:     slot.EndsAt,
		Reason:     ctx.ExtractString(REASON),
		Department: ctx.ExtractString(DEPARTMENT),
	}

	resp, err := ctx.Client.AppointmentClient.Create(body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return remoteErr("booking", resp)
	}

	appt, err := ctx.Client.AppointmentClient.DecodeAppointment(resp)
	if err != nil {
		return err
	}

	ctx.Output["appointment"] = appt
	return nil
}

// FetchDoctorTemplate loads the weekly schedule template. A doctor without
// a template still gets a roster, just an empty one.
func FetchDoctorTemplate(ctx *flow.FlowContext) error {
	doctorID := ctx.ExtractString(DOCTOR_ID)
	if flow.IsMissing(doctorID) {
		return flow.MissingParamErr(DOCTOR_ID)
	}

	resp, err := ctx.Client.ScheduleClient.GetByDoctor(doctorID)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		ctx.Process[SCHEDULE] = (*model.DoctorSchedule)(nil)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return remoteErr("schedule lookup", resp)
	}

	sched, err := ctx.Client.ScheduleClient.DecodeSchedule(resp)
	if err != nil {
		return err
	}

	ctx.Process[SCHEDULE] = sched
	return nil
}

// FetchDayAppointments pulls every appointment that overlaps the requested
// day, UTC midnight to midnight.
func FetchDayAppointments(ctx *flow.FlowContext) error {
	doctorID := ctx.ExtractString(DOCTOR_ID)
	day, err := extractDay(ctx)
	if err != nil {
		return err
	}

	dayStart, _ := time.Parse("2006-01-02", day)
	dayEnd := dayStart.Add(24 * time.Hour)

	resp, err := ctx.Client.AppointmentClient.Search(
		doctorID,
		dayStart.Format(time.RFC3339),
		dayEnd.Format(time.RFC3339),
		MaxAppointmentsPerRosterFetch,
		0,
	)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return remoteErr("appointment search", resp)
	}

	appointments, _, err := ctx.Client.AppointmentClient.DecodeAppointments(resp)
	if err != nil {
		return err
	}

	ctx.Process[APPOINTMENTS] = appointments
	return nil
}

// FetchDayWaitlist pulls the waiting queue for the doctor and day so the
// roster shows who is hoping for a freed slot.
func FetchDayWaitlist(ctx *flow.FlowContext) error {
	doctorID := ctx.ExtractString(DOCTOR_ID)
	day := ctx.ExtractString(DAY)

	resp, err := ctx.Client.WaitlistClient.GetQueue(doctorID, day)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return remoteErr("waitlist lookup", resp)
	}

	entries, err := ctx.Client.WaitlistClient.DecodeEntries(resp)
	if err != nil {
		return err
	}

	ctx.Process[WAITLIST] = entries
	return nil
}

// AssembleRoster flattens the gathered pieces into the flow output.
func AssembleRoster(ctx *flow.FlowContext) error {
	ctx.Output[DAY] = ctx.ExtractString(DAY)
	ctx.Output[DOCTOR_ID] = ctx.ExtractString(DOCTOR_ID)
	ctx.Output[SCHEDULE] = ctx.Process[SCHEDULE]
	ctx.Output[SLOTS] = ctx.Process[SLOTS]
	ctx.Output[APPOINTMENTS] = ctx.Process[APPOINTMENTS]
	ctx.Output[WAITLIST] = ctx.Process[WAITLIST]
	return nil
}
