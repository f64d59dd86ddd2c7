package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KLubina/Modul-335/core"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		number    string
		title     string
		zp        string
		lb        string
		wantField string
		wantMsg   string
	}{
		{name: "valid without grades", number: "M123", title: "Test Module"},
		{name: "valid with grades", number: "M123", title: "Test Module", zp: "4.5", lb: "6"},
		{name: "valid bounds", number: "M123", title: "Test", zp: "1.0", lb: "6.0"},
		{name: "valid integer grade", number: "M123", title: "Test", zp: "5"},
		{name: "number too short", number: "M12", title: "Test Module", wantField: "module_number", wantMsg: "module number too short."},
		{name: "number blank", number: "    ", title: "Test Module", wantField: "module_number", wantMsg: "module number too short."},
		{name: "number trimmed too short", number: "  M12  ", title: "Test Module", wantField: "module_number", wantMsg: "module number too short."},
		{name: "title too short", number: "M123", title: "Tes", wantField: "module_title", wantMsg: "module title too short."},
		{name: "number checked before title", number: "M1", title: "T", wantField: "module_number", wantMsg: "module number too short."},
		{name: "zp not a number", number: "M123", title: "Test", zp: "abc", wantField: "zp_note", wantMsg: "ZP grade must be a valid number."},
		{name: "zp comma decimal", number: "M123", title: "Test", zp: "4,5", wantField: "zp_note", wantMsg: "ZP grade must be a valid number."},
		{name: "zp too high", number: "M123", title: "Test", zp: "7.0", wantField: "zp_note", wantMsg: "ZP grade must be between 1.0 and 6.0."},
		{name: "zp too low", number: "M123", title: "Test", zp: "0.5", wantField: "zp_note", wantMsg: "ZP grade must be between 1.0 and 6.0."},
		{name: "zp NaN", number: "M123", title: "Test", zp: "NaN", wantField: "zp_note", wantMsg: "ZP grade must be between 1.0 and 6.0."},
		{name: "zp checked before lb", number: "M123", title: "Test", zp: "9", lb: "x", wantField: "zp_note", wantMsg: "ZP grade must be between 1.0 and 6.0."},
		{name: "zp digit separator", number: "M123", title: "Test", zp: "0_5", wantField: "zp_note", wantMsg: "ZP grade must be a valid number."},
		{name: "zp digit separator in range", number: "M123", title: "Test", zp: "1_0", wantField: "zp_note", wantMsg: "ZP grade must be a valid number."},
		{name: "lb digit separator", number: "M123", title: "Test", lb: "5_0", wantField: "lb_note", wantMsg: "LB grade must be a valid number."},
		{name: "lb not a number", number: "M123", title: "Test", lb: "abc", wantField: "lb_note", wantMsg: "LB grade must be a valid number."},
		{name: "lb too high", number: "M123", title: "Test", zp: "5", lb: "6.01", wantField: "lb_note", wantMsg: "LB grade must be between 1.0 and 6.0."},
		{name: "lb too low", number: "M123", title: "Test", lb: "0.99", wantField: "lb_note", wantMsg: "LB grade must be between 1.0 and 6.0."},
		{name: "blank grades are absent", number: "M123", title: "Test", zp: "  ", lb: "\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.number, tt.title, tt.zp, tt.lb)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "want *core.ValidationError, got %T", err)
			assert.Equal(t, tt.wantMsg, vErr.Error())
			assert.Equal(t, []core.FieldError{{Field: tt.wantField, Error: tt.wantMsg}}, vErr.Fields)
		})
	}
}

func TestValidate_GradeRange(t *testing.T) {
	for _, g := range []string{"1", "1.5", "2.25", "3", "4.75", "5.999", "6"} {
		assert.NoError(t, Validate("M123", "Title", g, g), g)
	}
	for _, g := range []string{"0", "-1", "0.999", "6.001", "10", "Inf", "-Inf"} {
		assert.Error(t, Validate("M123", "Title", g, ""), g)
		assert.Error(t, Validate("M123", "Title", "", g), g)
	}
}

func TestNewValidator_German(t *testing.T) {
	v := NewValidator("de")

	tests := []struct {
		name    string
		form    Form
		wantMsg string
	}{
		{name: "number", form: Form{Number: "M1", Title: "Titel"}, wantMsg: "Modulnummer muss mindestens 4 Zeichen lang sein"},
		{name: "title", form: Form{Number: "M123", Title: "Ti"}, wantMsg: "Modultitel muss mindestens 4 Zeichen lang sein"},
		{name: "zp number", form: Form{Number: "M123", Title: "Titel", ZPNote: "x"}, wantMsg: "ZP-Note muss eine gültige Zahl sein"},
		{name: "lb range", form: Form{Number: "M123", Title: "Titel", LBNote: "7"}, wantMsg: "LB-Note muss zwischen 1.0 und 6.0 liegen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateForm(tt.form)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
	assert.NoError(t, v.Validate("M123", "Titel", "5", "5.5"))
}

func TestNewValidator_UnknownLocale(t *testing.T) {
	err := NewValidator("xx").Validate("M1", "Title", "", "")
	require.Error(t, err)
	assert.Equal(t, "module number too short.", err.Error())
}
