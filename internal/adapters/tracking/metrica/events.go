package metrica

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/surface"
)

var eventColumns = []string{
	"Team", "Type", "Subtype", "Period", "Start Frame", "Start Time [s]",
	"End Frame", "End Time [s]", "From", "To", "Start X", "Start Y", "End X", "End Y",
}

// ReadEvents parses a raw event table, converting locations to metres.
// Player names are reduced to jersey ids ("Player9" becomes "9").
func ReadEvents(r io.Reader, field surface.Field) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: event header: %v", ErrMalformed, err)
	}
	if len(header) < len(eventColumns) {
		return nil, fmt.Errorf("%w: event header has %d columns", ErrMalformed, len(header))
	}
	for i, want := range eventColumns {
		if strings.TrimSpace(header[i]) != want {
			return nil, fmt.Errorf("%w: event column %d is %q, want %q", ErrMalformed, i, header[i], want)
		}
	}

	var events []model.Event
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: event line %d: %v", ErrMalformed, line, err)
		}
		if len(rec) < len(eventColumns) {
			return nil, fmt.Errorf("%w: event line %d has %d columns", ErrMalformed, line, len(rec))
		}
		ev, err := parseEvent(rec, field)
		if err != nil {
			return nil, fmt.Errorf("%w: event line %d: %v", ErrMalformed, line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseEvent(rec []string, field surface.Field) (model.Event, error) {
	var (
		ev  model.Event
		err error
	)
	if ev.Team, err = model.ParseTeam(rec[0]); err != nil {
		return ev, err
	}
	ev.Type = strings.TrimSpace(rec[1])
	ev.Subtype = strings.TrimSpace(rec[2])
	p := parser{}
	ev.Period = p.int(rec[3])
	ev.StartFrame = p.int(rec[4])
	ev.StartTime = p.float(rec[5])
	ev.EndFrame = p.int(rec[6])
	ev.EndTime = p.float(rec[7])
	ev.From = jersey(rec[8])
	ev.To = jersey(rec[9])
	ev.Start = toMetric(p.float(rec[10]), p.float(rec[11]), field)
	ev.End = toMetric(p.float(rec[12]), p.float(rec[13]), field)
	return ev, p.err
}

func jersey(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "Player")
}
