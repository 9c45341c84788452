// internal/driver/geolux/info_test.go
package geolux

import (
	"reflect"
	"testing"
)

const sampleInfoDump = "#device_type:HydroCAM\r\n" +
	"#firmware:2.1.5\r\n" +
	"#serial_id:123456\r\n" +
	"#resolution:1600x1200\r\n" +
	"#quality:80\r\n" +
	"#wb_offset:1,-2,3\r\n" +
	"#autofocus_point:10,20\r\n" +
	"#auto_snapshot_interval:off\r\n" +
	"#focus_position:150\r\n"

func infoStep() step {
	return step{want: "#get_info\r\n", reads: [][]byte{[]byte(sampleInfoDump)}}
}

func TestInfoParsesFullDump(t *testing.T) {
	cam, _ := newTestCamera(infoStep())
	info, err := cam.Info()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := info["firmware"]; !reflect.DeepEqual(got, []string{"2.1.5"}) {
		t.Fatalf("firmware = %v", got)
	}
	if got := info["wb_offset"]; !reflect.DeepEqual(got, []string{"1", "-2", "3"}) {
		t.Fatalf("wb_offset = %v", got)
	}
	if len(info) != 9 {
		t.Fatalf("parsed %d tags, want 9", len(info))
	}
}

func TestInfoSilence(t *testing.T) {
	cam, _ := newTestCamera()
	if _, err := cam.Info(); err != ErrNoResponse {
		t.Fatalf("got err %v, want ErrNoResponse", err)
	}
}

func TestInfoStringField(t *testing.T) {
	cam, _ := newTestCamera(infoStep())
	fw, err := cam.Firmware()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fw != "2.1.5" {
		t.Fatalf("firmware = %q", fw)
	}
}

func TestInfoIntFieldWithSkips(t *testing.T) {
	cam, _ := newTestCamera(infoStep(), infoStep())
	x, y, err := cam.AutofocusPoint()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if x != 10 || y != 20 {
		t.Fatalf("autofocus point = %d,%d, want 10,20", x, y)
	}
}

func TestInfoNegativeField(t *testing.T) {
	cam, _ := newTestCamera(infoStep(), infoStep(), infoStep())
	r, g, b, err := cam.WhiteBalanceOffset()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r != 1 || g != -2 || b != 3 {
		t.Fatalf("wb offset = %d,%d,%d, want 1,-2,3", r, g, b)
	}
}

func TestInfoFieldAbsent(t *testing.T) {
	cam, _ := newTestCamera(infoStep())
	if _, err := cam.ZoomPosition(); err != ErrFieldAbsent {
		t.Fatalf("got err %v, want ErrFieldAbsent", err)
	}
}

func TestInfoIntOverflow(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#get_info\r\n",
		reads: [][]byte{[]byte("#focus_position:123456789012345\r\n")},
	})
	if _, err := cam.FocusPosition(); err != ErrFieldOverflow {
		t.Fatalf("got err %v, want ErrFieldOverflow", err)
	}
}

func TestAutoSnapshotIntervalOff(t *testing.T) {
	cam, _ := newTestCamera(infoStep())
	v, err := cam.AutoSnapshotInterval()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v != 0 {
		t.Fatalf("interval = %d, want 0", v)
	}
}

func TestParseInfoLine(t *testing.T) {
	cases := []struct {
		line   string
		tag    string
		values []string
		ok     bool
	}{
		{"#firmware:2.1.5", "firmware", []string{"2.1.5"}, true},
		{"#wb_offset:1,2,3", "wb_offset", []string{"1", "2", "3"}, true},
		{"\n#resolution:1600x1200", "resolution", []string{"1600x1200"}, true},
		{"#empty_value:", "empty_value", []string{""}, true},
		{"firmware:2.1.5", "", nil, false},
		{"#no_colon", "", nil, false},
		{"", "", nil, false},
	}
	for _, tc := range cases {
		tag, values, ok := parseInfoLine(tc.line)
		if ok != tc.ok || tag != tc.tag || !reflect.DeepEqual(values, tc.values) {
			t.Fatalf("parseInfoLine(%q) = %q %v %v, want %q %v %v",
				tc.line, tag, values, ok, tc.tag, tc.values, tc.ok)
		}
	}
}
