package analytics

import (
	"sort"
	"time"

	"go-doctor-appointment/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TrailingDays     = 7
	RecentLimit      = 6
	TopDoctorsLimit  = 5
	DoctorLatestSize = 5

	dayLayout = "2006-01-02"
)

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatusDistribution partitions the ledger; the three counts always sum to the total
type StatusDistribution struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

func (d StatusDistribution) Total() int {
	return d.Pending + d.Completed + d.Cancelled
}

type RecentAppointment struct {
	ID          uuid.UUID                `json:"id"`
	PatientName string                   `json:"patient_name"`
	DoctorName  string                   `json:"doctor_name"`
	SlotDate    string                   `json:"slot_date"`
	SlotTime    string                   `json:"slot_time"`
	Status      entity.AppointmentStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
}

type DoctorRank struct {
	DoctorID     uuid.UUID `json:"doctor_id"`
	Name         string    `json:"name"`
	Speciality   string    `json:"speciality"`
	Image        string    `json:"image"`
	Appointments int       `json:"appointments"`
}

// Summary is the admin dashboard computed from the whole ledger
type Summary struct {
	TotalAppointments  int                 `json:"total_appointments"`
	TodaysAppointments int                 `json:"todays_appointments"`
	TotalRevenue       decimal.Decimal     `json:"total_revenue"`
	Last7Days          []DayCount          `json:"last_7_days"`
	StatusDistribution StatusDistribution  `json:"status_distribution"`
	Recent             []RecentAppointment `json:"recent_appointments"`
	TopDoctors         []DoctorRank        `json:"top_doctors"`
}

// Summarize reduces the ledger to dashboard figures. Day boundaries are taken in now's location.
func Summarize(appointments []entity.Appointment, now time.Time) Summary {
	loc := now.Location()
	today := now.Format(dayLayout)

	summary := Summary{
		TotalAppointments: len(appointments),
		TotalRevenue:      decimal.Zero,
		Last7Days:         make([]DayCount, TrailingDays),
	}

	dayIndex := make(map[string]int, TrailingDays)
	year, month, day := now.Date()
	for i := 0; i < TrailingDays; i++ {
		date := time.Date(year, month, day-(TrailingDays-1-i), 0, 0, 0, 0, loc).Format(dayLayout)
		summary.Last7Days[i] = DayCount{Date: date}
		dayIndex[date] = i
	}

	ranks := make(map[uuid.UUID]*DoctorRank)

	for i := range appointments {
		a := &appointments[i]
		created := a.CreatedAt.In(loc).Format(dayLayout)

		switch a.Status {
		case entity.AppointmentStatusCancelled:
			summary.StatusDistribution.Cancelled++
		case entity.AppointmentStatusCompleted:
			summary.StatusDistribution.Completed++
		default:
			summary.StatusDistribution.Pending++
		}

		if a.Payment {
			summary.TotalRevenue = summary.TotalRevenue.Add(a.Amount)
		}

		if idx, ok := dayIndex[created]; ok {
			summary.Last7Days[idx].Count++
		}

		if a.IsCancelled() {
			continue
		}

		if created == today {
			summary.TodaysAppointments++
		}

		rank, ok := ranks[a.DoctorID]
		if !ok {
			rank = &DoctorRank{
				DoctorID:   a.DoctorID,
				Name:       a.DoctorData.Name,
				Speciality: a.DoctorData.Speciality,
				Image:      a.DoctorData.Image,
			}
			ranks[a.DoctorID] = rank
		}
		rank.Appointments++
	}

	summary.Recent = recent(appointments, RecentLimit)
	summary.TopDoctors = topDoctors(ranks, TopDoctorsLimit)

	return summary
}

func recent(appointments []entity.Appointment, limit int) []RecentAppointment {
	sorted := newestFirst(appointments)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RecentAppointment, len(sorted))
	for i, a := range sorted {
		out[i] = RecentAppointment{
			ID:          a.ID,
			PatientName: a.PatientData.Name,
			DoctorName:  a.DoctorData.Name,
			SlotDate:    a.SlotDate,
			SlotTime:    a.SlotTime,
			Status:      a.Status,
			CreatedAt:   a.CreatedAt,
		}
	}
	return out
}

func topDoctors(ranks map[uuid.UUID]*DoctorRank, limit int) []DoctorRank {
	out := make([]DoctorRank, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Appointments != out[j].Appointments {
			return out[i].Appointments > out[j].Appointments
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].DoctorID.String() < out[j].DoctorID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// newestFirst returns a sorted copy; the input order is left alone
func newestFirst(appointments []entity.Appointment) []entity.Appointment {
	sorted := make([]entity.Appointment, len(appointments))
	copy(sorted, appointments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
