package report_generator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/kurochkinivan/iot_center/internal/domain"
)

const (
	titleHeight = 12
	lineHeight  = 6
	rowHeight   = 7
)

var (
	headerCell = &props.Cell{BackgroundColor: &props.Color{Red: 220, Green: 226, Blue: 235}}
	bold       = props.Text{Style: fontstyle.Bold, Size: 9, Top: 1.5}
	plain      = props.Text{Size: 9, Top: 1.5}
)

// Generator renders the inventory of one DTU as a PDF: device attributes
// followed by a table of its sensors and their MB-RTU settings.
type Generator struct {
	now func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) GenerateReport(
	device *domain.Device,
	sensors []*domain.Sensor,
	configs []*domain.MBRTUConfig,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithRightMargin(12).
		WithTopMargin(12).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(titleHeight, "DTU report: "+device.DtuID, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
		text.NewRow(lineHeight, "Generated "+g.now().UTC().Format(time.RFC3339), props.Text{
			Size:  8,
			Align: align.Center,
		}),
	)

	m.AddRows(deviceRows(device)...)

	m.AddRows(text.NewRow(titleHeight, fmt.Sprintf("Sensors (%d)", len(sensors)), props.Text{
		Size:  12,
		Style: fontstyle.Bold,
		Top:   4,
	}))
	m.AddRows(sensorRows(sensors, configs)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}

	return doc.GetBytes(), nil
}

func deviceRows(d *domain.Device) []core.Row {
	fields := [][2]string{
		{"Name", d.Name},
		{"Group", d.Group},
		{"Serial number", deref(d.SerialNumber)},
		{"Status", string(d.Status)},
		{"Link protocol", d.LinkProtocol},
		{"Offline delay", strconv.Itoa(d.OfflineDelay) + " s"},
		{"Timezone", d.Timezone},
		{"Location", location(d.Longitude, d.Latitude)},
	}

	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, row.New(lineHeight).Add(
			text.NewCol(3, f[0], bold),
			text.NewCol(9, f[1], plain),
		))
	}

	return rows
}

func sensorRows(sensors []*domain.Sensor, configs []*domain.MBRTUConfig) []core.Row {
	bySensor := make(map[string]*domain.MBRTUConfig, len(configs))
	for _, c := range configs {
		bySensor[c.SensorID] = c
	}

	rows := []core.Row{
		row.New(rowHeight).Add(
			text.NewCol(2, "Sensor ID", bold),
			text.NewCol(1, "Name", bold),
			text.NewCol(1, "Type", bold),
			text.NewCol(1, "Unit", bold),
			text.NewCol(2, "Upper", bold),
			text.NewCol(2, "Lower", bold),
			text.NewCol(1, "Slave", bold),
			text.NewCol(1, "FC", bold),
			text.NewCol(1, "Cycle", bold),
		).WithStyle(headerCell),
	}

	for _, s := range sensors {
		slave, fc, cycle := "-", "-", "-"
		if c, ok := bySensor[s.SensorID]; ok {
			slave = strconv.Itoa(c.SlaveAddress)
			fc = fmt.Sprintf("%02d %s", c.FunctionCode.Code(), c.DataFormat)
			cycle = strconv.Itoa(c.CollectionCycle) + " s"
		}

		sensorType := "-"
		if s.Type != nil {
			sensorType = string(*s.Type)
		}

		rows = append(rows, row.New(rowHeight).Add(
			text.NewCol(2, s.SensorID, plain),
			text.NewCol(1, s.Name, plain),
			text.NewCol(1, sensorType, plain),
			text.NewCol(1, deref(s.Unit), plain),
			text.NewCol(2, mapping(s.Upper()), plain),
			text.NewCol(2, mapping(s.Lower()), plain),
			text.NewCol(1, slave, plain),
			text.NewCol(1, fc, plain),
			text.NewCol(1, cycle, plain),
		))
	}

	return rows
}

// mapping renders the raw range and the engineering range it maps onto.
func mapping(m domain.Mapping) string {
	if m.X1 == nil || m.X2 == nil {
		return "-"
	}
	lo, ok := m.Apply(*m.X1)
	if !ok {
		return "-"
	}
	hi, _ := m.Apply(*m.X2)
	return fmt.Sprintf("%g..%g > %g..%g", *m.X1, *m.X2, lo, hi)
}

func location(lon, lat *float64) string {
	if lon == nil || lat == nil {
		return "-"
	}
	return fmt.Sprintf("%.6f, %.6f", *lat, *lon)
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
