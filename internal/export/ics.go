// Package export renders weekly schedules as iCalendar files.
package export

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

const (
	ContentType      = "text/calendar; charset=utf-8"
	reminderMinutes  = 30
	restBlockMinutes = 30
	prodID           = "-//Adaptive Trainer//Weekly Schedule//EN"
)

// ObjectKey is the storage key of a week's calendar.
func ObjectKey(athleteID string, weekStart time.Time) string {
	return fmt.Sprintf("exports/%s/%s.ics", athleteID, domain.DateOnly(weekStart).Format(domain.DateLayout))
}

// RenderICS renders one VEVENT per session. stamp is written as DTSTAMP so output is reproducible.
func RenderICS(schedule domain.AutomaticSchedule, stamp time.Time) []byte {
	var sb strings.Builder

	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:" + prodID + "\r\n")
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")
	sb.WriteString(fmt.Sprintf("X-WR-CALNAME:Training week of %s\r\n", schedule.WeekStart.Format(domain.DateLayout)))

	for _, s := range schedule.Sessions {
		start := domain.At(s.Date, s.Time)
		minutes := s.Duration
		if minutes <= 0 {
			minutes = restBlockMinutes
		}
		end := start.Add(time.Duration(minutes) * time.Minute)

		sb.WriteString("BEGIN:VEVENT\r\n")
		sb.WriteString(fmt.Sprintf("UID:%s@adaptive-trainer\r\n", s.ID))
		sb.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))
		sb.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		sb.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))
		sb.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary(s))))
		if s.Reason != "" {
			sb.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(s.Reason)))
		}
		sb.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.ToUpper(string(s.Type))))
		sb.WriteString("BEGIN:VALARM\r\n")
		sb.WriteString("ACTION:DISPLAY\r\n")
		sb.WriteString(fmt.Sprintf("TRIGGER:-PT%dM\r\n", reminderMinutes))
		sb.WriteString("DESCRIPTION:Training reminder\r\n")
		sb.WriteString("END:VALARM\r\n")
		sb.WriteString("END:VEVENT\r\n")
	}

	sb.WriteString("END:VCALENDAR\r\n")
	return []byte(sb.String())
}

func summary(s domain.SessionSchedule) string {
	if s.Type == domain.SessionRest {
		return "Rest and mobility"
	}
	return fmt.Sprintf("%s session (%s intensity)", strings.ToUpper(string(s.Type[:1]))+string(s.Type[1:]), s.Intensity)
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes text values per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
