package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_AverageGrade(t *testing.T) {
	tests := []struct {
		name    string
		mod     Module
		wantAvg *float64
		wantAll bool
	}{
		{name: "no grades", mod: Module{Number: "M456", Title: "Bestehendes Modul"}},
		{name: "zp only", mod: Module{Number: "M456", Title: "Modul", ZPNote: Grade(4.5)}},
		{name: "lb only", mod: Module{Number: "M456", Title: "Modul", LBNote: Grade(4.5)}},
		{name: "5.0 & 5.5", mod: Module{Number: "M123", Title: "Testmodul", ZPNote: Grade(5.0), LBNote: Grade(5.5)}, wantAvg: Grade(5.25), wantAll: true},
		{name: "4.5 & 5.0", mod: Module{Number: "M456", Title: "Testmodul", ZPNote: Grade(4.5), LBNote: Grade(5.0)}, wantAvg: Grade(4.75), wantAll: true},
		{name: "bounds", mod: Module{Number: "M789", Title: "Testmodul", ZPNote: Grade(1), LBNote: Grade(6)}, wantAvg: Grade(3.5), wantAll: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAll, tt.mod.HasAllGrades())
			avg := tt.mod.AverageGrade()
			if tt.wantAvg == nil {
				assert.Nil(t, avg)
				return
			}
			require.NotNil(t, avg)
			assert.Equal(t, *tt.wantAvg, *avg)
		})
	}
}

func TestModule_GradesUpdate(t *testing.T) {
	mod := Module{Number: "M456", Title: "Bestehendes Modul"}
	assert.Nil(t, mod.AverageGrade(), "new module should have no average grade")
	assert.False(t, mod.HasAllGrades())

	mod.ZPNote = Grade(4.5)
	mod.LBNote = Grade(5.0)
	assert.Equal(t, 4.75, *mod.AverageGrade())
	assert.True(t, mod.HasAllGrades())
}

func TestForm_Module(t *testing.T) {
	t.Run("trims and parses", func(t *testing.T) {
		mod, err := Form{Number: " M335 ", Title: " Mobile Apps ", ZPNote: " 5.0", LBNote: "5.5 "}.Module()
		require.NoError(t, err)
		assert.Equal(t, "M335", mod.Number)
		assert.Equal(t, "Mobile Apps", mod.Title)
		assert.Equal(t, 5.0, *mod.ZPNote)
		assert.Equal(t, 5.5, *mod.LBNote)
	})

	t.Run("empty grades are absent", func(t *testing.T) {
		mod, err := Form{Number: "M335", Title: "Mobile Apps"}.Module()
		require.NoError(t, err)
		assert.Nil(t, mod.ZPNote)
		assert.Nil(t, mod.LBNote)
		assert.Nil(t, mod.AverageGrade())
	})

	t.Run("unparsable grade", func(t *testing.T) {
		_, err := Form{Number: "M335", Title: "Mobile Apps", LBNote: "abc"}.Module()
		assert.Error(t, err)
	})
}

func TestFormOf(t *testing.T) {
	f := FormOf(Module{Number: "M335", Title: "Mobile Apps", ZPNote: Grade(5)})
	assert.Equal(t, Form{Number: "M335", Title: "Mobile Apps", ZPNote: "5"}, f)

	mod, err := f.Module()
	require.NoError(t, err)
	assert.Equal(t, 5.0, *mod.ZPNote)
	assert.Nil(t, mod.LBNote)
}

func TestFormatAverage(t *testing.T) {
	tests := []struct {
		name string
		g    *float64
		want string
	}{
		{name: "absent", want: ""},
		{name: "one decimal", g: Grade(4.5), want: "4.5"},
		{name: "half rounds up", g: Grade(5.25), want: "5.3"},
		{name: "whole", g: Grade(6), want: "6.0"},
		{name: "rounds down", g: Grade(4.749), want: "4.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAverage(tt.g))
		})
	}
}

func TestParseGrade(t *testing.T) {
	g, err := ParseGrade("5.5")
	assert.NoError(t, err)
	assert.Equal(t, 5.5, g)

	for _, s := range []string{"0_5", "1_0", "abc", "4,5", ""} {
		_, err := ParseGrade(s)
		assert.Error(t, err, s)
	}

	_, err = Form{Number: "M123", Title: "Title", ZPNote: "0_5"}.Module()
	assert.Error(t, err)
}
