package module

import (
	"math"
	"strconv"
	"strings"

	"github.com/KLubina/Modul-335/core"
)

// Grade bounds (swiss grading scale).
const (
	MinGrade = 1.0
	MaxGrade = 6.0
)

// Module is a school module and its grades.
type Module struct {
	Number string   // eg. M106, M223, M335; primary key
	Title  string   // eg. Mobile Apps erstellen
	ZPNote *float64 // Zwischenprüfungsnote (interim exam)
	LBNote *float64 // Leistungsbewertung (performance assessment)
}

// AverageGrade returns the mean of both grades, or nil if either one is missing.
func (m Module) AverageGrade() *float64 {
	if !m.HasAllGrades() {
		return nil
	}
	avg := (*m.ZPNote + *m.LBNote) / 2
	return &avg
}

func (m Module) HasAllGrades() bool {
	return m.ZPNote != nil && m.LBNote != nil
}

// Grade returns a pointer to g, for building Modules inline.
func Grade(g float64) *float64 {
	return &g
}

// FormatGrade renders an optional grade; absent grades render as "".
func FormatGrade(g *float64) string {
	if g == nil {
		return ""
	}
	return strconv.FormatFloat(*g, 'f', -1, 64)
}

// FormatAverage renders an average with one decimal, halves rounded up; absent renders as "".
func FormatAverage(g *float64) string {
	if g == nil {
		return ""
	}
	return strconv.FormatFloat(math.Floor(*g*10+0.5)/10, 'f', 1, 64)
}

// ParseGrade parses grade text as a float64. Digit separators ("1_0") are not numbers here.
func ParseGrade(s string) (float64, error) {
	if strings.ContainsRune(s, '_') {
		return 0, &strconv.NumError{Func: "ParseGrade", Num: s, Err: strconv.ErrSyntax}
	}
	return strconv.ParseFloat(s, 64)
}

// Form holds the raw text of the add/edit form.
type Form struct {
	Number string `json:"module_number" validate:"min=4"`
	Title  string `json:"module_title" validate:"min=4"`
	ZPNote string `json:"zp_note" validate:"omitempty,grade_number,grade_range"`
	LBNote string `json:"lb_note" validate:"omitempty,grade_number,grade_range"`
}

// FormOf fills a Form with m's values, as the edit screen does.
func FormOf(m Module) Form {
	return Form{
		Number: m.Number,
		Title:  m.Title,
		ZPNote: FormatGrade(m.ZPNote),
		LBNote: FormatGrade(m.LBNote),
	}
}

func (f *Form) clean() {
	f.Number = core.CleanString(f.Number)
	f.Title = core.CleanString(f.Title)
	f.ZPNote = core.CleanString(f.ZPNote)
	f.LBNote = core.CleanString(f.LBNote)
}

// Module converts a validated Form into a Module. Empty grade texts become absent grades.
func (f Form) Module() (Module, error) {
	f.clean()
	m := Module{Number: f.Number, Title: f.Title}
	var err error
	if m.ZPNote, err = parseGrade(f.ZPNote); err != nil {
		return Module{}, err
	}
	if m.LBNote, err = parseGrade(f.LBNote); err != nil {
		return Module{}, err
	}
	return m, nil
}

func parseGrade(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	g, err := ParseGrade(s)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
