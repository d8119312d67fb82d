package annotation

import (
	"reflect"
	"sort"
	"testing"
)

func TestComposeLabelsOnly(t *testing.T) {
	got := Compose([]string{"General reset", "Reset", "Rst", "R"}, nil, nil, nil)
	want := []string{"General reset", "Reset", "Rst", "R"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compose() = %v, want %v", got, want)
	}
}

func TestComposeWithValue(t *testing.T) {
	got := Compose([]string{"Slave address", "Addr", "A"},
		[]string{"0x48"}, nil, nil)
	want := []string{
		"Slave address: 0x48",
		"Addr: 0x48",
		"A: 0x48",
		"Addr",
		"A",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compose() = %v, want %v", got, want)
	}
}

func TestComposeValueUnitAction(t *testing.T) {
	got := Compose([]string{"Temperature", "Temp", "T"},
		[]string{"25"}, []string{"°C"}, []string{"Read"})

	// Unit attaches with no separating space.
	mustContain := []string{
		"Read Temperature: 25°C",
		"Read Temperature: 25",
		"Read Temp: 25°C",
		"Read T: 25",
		"Temp", // fallback: last two labels, verbatim
		"T",
	}
	for _, want := range mustContain {
		found := false
		for _, v := range got {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Compose() missing variant %q in %v", want, got)
		}
	}
	for _, v := range got {
		if v == "Read Temperature: 25 °C" {
			t.Error("unit attached with a space")
		}
	}
}

func TestComposeSpacedUnit(t *testing.T) {
	// Units that read better with separation carry their own leading space.
	got := Compose([]string{"Conversion rate", "Rate"},
		[]string{"4"}, []string{" Hz"}, nil)
	if got[0] != "Conversion rate: 4 Hz" {
		t.Errorf("longest variant = %q, want %q", got[0], "Conversion rate: 4 Hz")
	}
}

func TestComposeMultipleValues(t *testing.T) {
	got := Compose([]string{"Alert bit", "A"},
		[]string{"1", "inactive", "I"}, nil, nil)

	mustContain := []string{
		"Alert bit: inactive",
		"Alert bit: 1",
		"A: I",
	}
	for _, want := range mustContain {
		found := false
		for _, v := range got {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Compose() missing variant %q in %v", want, got)
		}
	}
}

func TestComposeSortedDescending(t *testing.T) {
	got := Compose([]string{"Configuration register", "Conf", "C"},
		[]string{"0x60A0"}, nil, []string{"Written"})
	if !sort.SliceIsSorted(got, func(i, j int) bool {
		return len(got[i]) > len(got[j])
	}) {
		t.Errorf("variants not sorted by descending length: %v", got)
	}
	if got[0] != "Written Configuration register: 0x60A0" {
		t.Errorf("longest variant = %q", got[0])
	}
}

func TestComposeNeverEmpty(t *testing.T) {
	cases := []struct {
		name    string
		labels  []string
		values  []string
		units   []string
		actions []string
	}{
		{"single label", []string{"X"}, nil, nil, nil},
		{"label and value", []string{"X"}, []string{"1"}, nil, nil},
		{"full set", []string{"X", "Y"}, []string{"1"}, []string{"u"}, []string{"Read"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compose(tc.labels, tc.values, tc.units, tc.actions); len(got) == 0 {
				t.Error("Compose() returned no variants")
			}
		})
	}
}

func TestComposeShortLabelTableFallback(t *testing.T) {
	// With fewer than three labels the whole table is the fallback.
	got := Compose([]string{"Sel"}, []string{"TEMP"}, nil, nil)
	want := []string{"Sel: TEMP", "Sel"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compose() = %v, want %v", got, want)
	}
}
