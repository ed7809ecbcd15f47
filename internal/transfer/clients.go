package transfer

import (
	"fmt"
	"io"

	"trackcore/internal/validation"
	"trackcore/pkg/domain"
)

// ClientStore is the part of the record store the client transfers use.
type ClientStore interface {
	NewID() string
	ListClients() []domain.Client
	FindClient(id string) (domain.Client, bool)
	FindMeasurement(id string) (domain.Measurement, bool)
	MeasurementsFor(clientID string) []domain.Measurement
	AddClient(v domain.Client) domain.Client
	AddMeasurement(v domain.Measurement) domain.Measurement
}

// ClientBundleFor collects a client and its measurements.
func ClientBundleFor(st ClientStore, id string) (ClientBundle, bool) {
	c, ok := st.FindClient(id)
	if !ok {
		return ClientBundle{}, false
	}
	return ClientBundle{Client: c, Measurements: nonNil(st.MeasurementsFor(id))}, true
}

// ExportClient writes one client bundle as indented JSON.
func ExportClient(w io.Writer, st ClientStore, id string) error {
	b, ok := ClientBundleFor(st, id)
	if !ok {
		return fmt.Errorf("client %q: %w", id, ErrNotFound)
	}
	return writeJSON(w, b)
}

// ExportClients writes every client bundle as an indented JSON array.
func ExportClients(w io.Writer, st ClientStore) error {
	clients := st.ListClients()
	out := make([]ClientBundle, 0, len(clients))
	for _, c := range clients {
		if b, ok := ClientBundleFor(st, c.ID); ok {
			out = append(out, b)
		}
	}
	return writeJSON(w, out)
}

// ClientTemplate returns a bulk import template with one example measurement.
func ClientTemplate() []ClientBundle {
	return []ClientBundle{{
		Client:       domain.Client{Name: "Client name", Phone: "+1 555 0100", Goal: "lose 5 kg", StartDate: "2024-01-01"},
		Measurements: []domain.Measurement{{Date: "2024-01-01", Weight: 82.5, BodyFat: 24, Waist: 90}},
	}}
}

// WriteClientTemplate writes ClientTemplate as indented JSON.
func WriteClientTemplate(w io.Writer) error { return writeJSON(w, ClientTemplate()) }

// ImportClients validates a client bundle document and adds its records to
// the store, re-minting colliding ids the same way ImportStudents does.
func ImportClients(data []byte, st ClientStore) (Result, error) {
	bundles, indexed, err := decodeBundles[ClientBundle](data, "measurements")
	if err != nil {
		return Result{}, err
	}

	clients := newPlanner(st.NewID, exists(st.FindClient))
	measurements := newPlanner(st.NewID, exists(st.FindMeasurement))

	res := Result{IDs: make([]string, 0, len(bundles))}
	var problems validation.Problems
	planned := make([]ClientBundle, 0, len(bundles))
	for i, b := range bundles {
		prefix := bundlePrefix(indexed, i)
		problems = check(problems, prefix, b.Client)

		original := b.ID
		b.ID = clients.claim(b.ID)
		if original != "" && original != b.ID {
			res.remap(original, b.ID)
		}
		b.Measurements = append([]domain.Measurement(nil), b.Measurements...)
		for j := range b.Measurements {
			b.Measurements[j].ClientID = b.ID
			b.Measurements[j].ID = measurements.claim(b.Measurements[j].ID)
			problems = check(problems, fmt.Sprintf("%smeasurements[%d].", prefix, j), b.Measurements[j])
		}
		planned = append(planned, b)
	}
	if len(problems) > 0 {
		return Result{}, invalid(problems...)
	}

	for _, b := range planned {
		st.AddClient(b.Client)
		for _, m := range b.Measurements {
			st.AddMeasurement(m)
		}
		res.IDs = append(res.IDs, b.ID)
		res.Children += len(b.Measurements)
	}
	return res, nil
}
