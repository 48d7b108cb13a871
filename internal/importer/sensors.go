package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jszwec/csvutil"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const DefaultMaxRows = 1000

// sensorRow is one line of a sensor sheet. The MB-RTU columns are optional;
// a row that leaves all of them empty gets protocol defaults.
type sensorRow struct {
	domain.Sensor

	SlaveAddress    *int                 `csv:"slave_address,omitempty"`
	FunctionCode    *domain.FunctionCode `csv:"function_code,omitempty"`
	OffsetValue     *float64             `csv:"offset_value,omitempty"`
	DataFormat      *domain.DataFormat   `csv:"data_format,omitempty"`
	DataBits        *int                 `csv:"data_bits,omitempty"`
	ByteOrder       *string              `csv:"byte_order_value,omitempty"`
	CollectionCycle *int                 `csv:"collection_cycle,omitempty"`
}

func (r *sensorRow) spec() domain.SensorSpec {
	spec := domain.SensorSpec{Sensor: r.Sensor}

	patch := &domain.ConfigPatch{
		SlaveAddress:    r.SlaveAddress,
		FunctionCode:    r.FunctionCode,
		OffsetValue:     r.OffsetValue,
		DataFormat:      r.DataFormat,
		DataBits:        r.DataBits,
		ByteOrder:       r.ByteOrder,
		CollectionCycle: r.CollectionCycle,
	}
	if len(patch.Columns()) > 0 {
		spec.Config = patch
	}

	return spec
}

// SensorDecoder reads sensor sheets exported as CSV or TSV. The delimiter
// is taken from the header line.
type SensorDecoder struct {
	log     *slog.Logger
	maxRows int
}

func NewSensorDecoder(log *slog.Logger, maxRows int) *SensorDecoder {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &SensorDecoder{
		log:     log,
		maxRows: maxRows,
	}
}

func (d *SensorDecoder) DecodeSensors(r io.Reader) ([]domain.SensorSpec, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if i := bytes.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true
	if bytes.IndexByte(header, '\t') >= 0 {
		reader.Comma = '\t'
	}

	dec, err := csvutil.NewDecoder(reader)
	if errors.Is(err, io.EOF) {
		return nil, invalid("file is empty")
	}
	if err != nil {
		return nil, invalid("failed to read header: %v", err)
	}

	var specs []domain.SensorSpec
	for {
		var row sensorRow

		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid("record #%d: %v", len(specs)+1, err)
		}

		if len(specs) == d.maxRows {
			return nil, invalid("file has more than %d records", d.maxRows)
		}

		specs = append(specs, row.spec())
	}

	if len(specs) == 0 {
		return nil, invalid("file has no records")
	}

	d.log.Debug("decoded sensor sheet", slog.Int("sensor_count", len(specs)))

	return specs, nil
}

func invalid(format string, args ...any) error {
	return &domain.ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}
