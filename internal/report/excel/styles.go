package excel

import (
	"github.com/xuri/excelize/v2"

	"device-inspection/internal/model"
)

// styleSet holds the style IDs registered on one workbook.
type styleSet struct {
	title    int
	header   int
	value    int
	wrap     int
	normal   int
	warning  int
	abnormal int
	error    int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	var (
		s   styleSet
		err error
	)

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18},
		Alignment: center,
	}); err != nil {
		return nil, err
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: colorHeaderFg},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: center,
	}); err != nil {
		return nil, err
	}

	if s.value, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12},
		Alignment: center,
	}); err != nil {
		return nil, err
	}

	if s.wrap, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}); err != nil {
		return nil, err
	}

	if s.normal, err = fillStyle(f, colorNormalFg, colorNormalBg); err != nil {
		return nil, err
	}
	if s.warning, err = fillStyle(f, colorWarningFg, colorWarningBg); err != nil {
		return nil, err
	}
	if s.abnormal, err = fillStyle(f, colorCriticalFg, colorCriticalBg); err != nil {
		return nil, err
	}
	if s.error, err = fillStyle(f, colorErrorFg, colorErrorBg); err != nil {
		return nil, err
	}

	return &s, nil
}

func fillStyle(f *excelize.File, fg, bg string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: fg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{bg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
}

// forStatus returns the cell style for a status, or 0 for none.
func (s *styleSet) forStatus(status model.Status) int {
	switch status {
	case model.StatusNormal:
		return s.normal
	case model.StatusWarning:
		return s.warning
	case model.StatusAbnormal:
		return s.abnormal
	case model.StatusError:
		return s.error
	default:
		return 0
	}
}
