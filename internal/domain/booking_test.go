package domain

import "testing"

func TestSiteCoords(t *testing.T) {
	project := Coordinates{Lat: 50.8, Lng: -3.6}
	custom := Coordinates{Lat: 50.9, Lng: -3.7}

	t.Run("project coords by default", func(t *testing.T) {
		b := Booking{ProjectCoords: &project}
		got, isCustom := b.SiteCoords()
		if got != project || isCustom {
			t.Fatalf("got %v custom=%v", got, isCustom)
		}
	})

	t.Run("custom coords override", func(t *testing.T) {
		b := Booking{ProjectCoords: &project, CustomCoords: &custom}
		got, isCustom := b.SiteCoords()
		if got != custom || !isCustom {
			t.Fatalf("got %v custom=%v", got, isCustom)
		}
	})

	t.Run("zero custom coords ignored", func(t *testing.T) {
		b := Booking{ProjectCoords: &project, CustomCoords: &Coordinates{}}
		got, isCustom := b.SiteCoords()
		if got != project || isCustom {
			t.Fatalf("got %v custom=%v", got, isCustom)
		}
	})

	t.Run("no coords at all", func(t *testing.T) {
		b := Booking{}
		if b.HasCoords() {
			t.Fatal("HasCoords on an empty booking")
		}
	})
}

func TestMixSuffix(t *testing.T) {
	tests := []struct {
		mix  string
		want string
	}{
		{"C25ST", "ST"},
		{"C40SC", "SC"},
		{"X", "X"},
		{"", ""},
	}
	for _, tc := range tests {
		b := Booking{MixName: tc.mix}
		if got := b.MixSuffix(); got != tc.want {
			t.Errorf("MixSuffix(%q) = %q, want %q", tc.mix, got, tc.want)
		}
	}
}

func TestCoordinatesRounded(t *testing.T) {
	c := Coordinates{Lat: 50.7360049, Lng: -3.5350051}
	got := c.Rounded()
	want := Coordinates{Lat: 50.73600, Lng: -3.53501}
	if got != want {
		t.Fatalf("Rounded() = %v, want %v", got, want)
	}
}

func TestCoordsToList(t *testing.T) {
	c := Coordinates{Lat: 50.736, Lng: -3.535}
	got := c.CoordsToList()
	if got[0] != -3.535 || got[1] != 50.736 {
		t.Fatalf("CoordsToList() = %v, want [lng lat]", got)
	}
}
