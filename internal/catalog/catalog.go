// Package catalog holds the bookable reference data: the fixed experience
// table and per-date time slot availability.
package catalog

import (
	"hash/fnv"
	"math/rand"
	"time"

	"booking-assistant/internal/models"
)

const (
	slotCapacity = 25
	slotPrice    = 25
	openingHour  = 9
	closingHour  = 17
)

var experiences = []models.Experience{
	{
		ID:          "museum-tour",
		Name:        "Museum Tour",
		Duration:    "90 min",
		Description: "Comprehensive tour of all major exhibits with expert guide",
		Icon:        "🏛️",
	},
	{
		ID:          "art-exhibition",
		Name:        "Art Exhibition",
		Duration:    "60 min",
		Description: "Modern Masterpieces - Contemporary art collection showcase",
		Icon:        "🎨",
	},
	{
		ID:          "science-show",
		Name:        "Science Show",
		Duration:    "45 min",
		Description: "Interactive demonstrations and hands-on experiments",
		Icon:        "🔬",
	},
	{
		ID:          "history-walk",
		Name:        "History Walk",
		Duration:    "75 min",
		Description: "Journey through time with historical artifacts and stories",
		Icon:        "📜",
	},
}

type Catalog struct {
	now func() time.Time
}

func New() *Catalog {
	return &Catalog{now: time.Now}
}

// NewWithClock pins the clock, for tests.
func NewWithClock(now func() time.Time) *Catalog {
	return &Catalog{now: now}
}

func (c *Catalog) Experiences() []models.Experience {
	out := make([]models.Experience, len(experiences))
	copy(out, experiences)
	return out
}

func (c *Catalog) ExperienceByID(id string) (models.Experience, bool) {
	for _, e := range experiences {
		if e.ID == id {
			return e, true
		}
	}
	return models.Experience{}, false
}

func (c *Catalog) ExperienceByName(name string) (models.Experience, bool) {
	for _, e := range experiences {
		if e.Name == name {
			return e, true
		}
	}
	return models.Experience{}, false
}

// NextDays lists the next count bookable dates as ISO date strings,
// starting today.
func (c *Catalog) NextDays(count int) []string {
	days := make([]string, 0, count)
	today := c.now()
	for i := 0; i < count; i++ {
		days = append(days, today.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return days
}

// TimeSlots generates the hourly slots for a date. Availability is drawn
// from a seed derived from the date, so repeated lookups within a session
// agree on what is still free.
func (c *Catalog) TimeSlots(date string) []models.TimeSlot {
	h := fnv.New64a()
	h.Write([]byte(date))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	slots := make([]models.TimeSlot, 0, closingHour-openingHour+1)
	for hour := openingHour; hour <= closingHour; hour++ {
		available := rng.Intn(20) + 5
		slots = append(slots, models.TimeSlot{
			ID:        date + "-" + twoDigit(hour),
			Time:      twoDigit(hour) + ":00",
			Available: available,
			Total:     slotCapacity,
			Price:     slotPrice,
		})
	}
	return slots
}

func (c *Catalog) SlotByID(date, slotID string) (models.TimeSlot, bool) {
	for _, s := range c.TimeSlots(date) {
		if s.ID == slotID {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}

func twoDigit(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
