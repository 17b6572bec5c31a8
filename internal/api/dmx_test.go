package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/nerrad567/stagelight-core/internal/fade"
)

func TestSetChannel(t *testing.T) {
	srv, _, dmxSvc := testServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/dmx/channels", channelRequest{
		Universe: 1, Channel: 10, Value: 200,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["value"] != float64(200) {
		t.Errorf("value = %v, want 200", body["value"])
	}
	if v, _ := dmxSvc.GetChannelValue(1, 10); v != 200 {
		t.Errorf("service value = %d, want 200", v)
	}
}

func TestSetChannel_ClampsValue(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/dmx/channels", channelRequest{
		Universe: 1, Channel: 1, Value: 999,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["value"] != float64(255) {
		t.Errorf("value = %v, want clamped 255", body["value"])
	}
}

func TestSetChannel_Validation(t *testing.T) {
	srv, _, _ := testServer(t)

	tests := []struct {
		name string
		req  channelRequest
	}{
		{"universe zero", channelRequest{Universe: 0, Channel: 1, Value: 1}},
		{"universe beyond allocation", channelRequest{Universe: 3, Channel: 1, Value: 1}},
		{"channel zero", channelRequest{Universe: 1, Channel: 0, Value: 1}},
		{"channel 513", channelRequest{Universe: 1, Channel: 513, Value: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPut, "/api/v1/dmx/channels", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGetChannel(t *testing.T) {
	srv, _, dmxSvc := testServer(t)
	dmxSvc.SetChannelValue(2, 7, 64)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dmx/channels/2/7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["value"] != float64(64) {
		t.Errorf("value = %v, want 64", body["value"])
	}
}

func TestGetUniverse(t *testing.T) {
	srv, _, dmxSvc := testServer(t)
	dmxSvc.SetChannelValue(1, 1, 255)
	dmxSvc.SetChannelValue(1, 512, 10)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dmx/universes/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	values, ok := body["values"].([]any)
	if !ok || len(values) != 512 {
		t.Fatalf("values length = %d, want 512", len(values))
	}
	if values[0] != float64(255) || values[511] != float64(10) {
		t.Errorf("values[0]=%v values[511]=%v, want 255 and 10", values[0], values[511])
	}
}

func TestGetUniverse_Invalid(t *testing.T) {
	srv, _, _ := testServer(t)

	for _, path := range []string{"/api/v1/dmx/universes/0", "/api/v1/dmx/universes/9", "/api/v1/dmx/universes/abc"} {
		rec := doRequest(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestListUniverses(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dmx/universes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestOverrides(t *testing.T) {
	srv, _, dmxSvc := testServer(t)
	dmxSvc.SetChannelValue(1, 3, 100)

	// Override wins over the base value
	rec := doRequest(t, srv, http.MethodPut, "/api/v1/dmx/overrides", channelRequest{
		Universe: 1, Channel: 3, Value: 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set override: status = %d, want 200", rec.Code)
	}
	if v, _ := dmxSvc.GetChannelValue(1, 3); v != 0 {
		t.Errorf("effective value = %d, want overridden 0", v)
	}

	// Clearing restores the base value
	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/dmx/overrides/1/3", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear override: status = %d, want 204", rec.Code)
	}
	if v, _ := dmxSvc.GetChannelValue(1, 3); v != 100 {
		t.Errorf("effective value = %d, want base 100 restored", v)
	}
}

func TestClearAllOverrides(t *testing.T) {
	srv, _, dmxSvc := testServer(t)
	dmxSvc.SetChannelOverride(1, 1, 255)
	dmxSvc.SetChannelOverride(2, 2, 255)

	rec := doRequest(t, srv, http.MethodDelete, "/api/v1/dmx/overrides", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if n := dmxSvc.OverrideCount(); n != 0 {
		t.Errorf("overrides = %d, want 0", n)
	}
}

func TestGetRate(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dmx/rate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["rate_hz"] != float64(44) || body["active"] != true {
		t.Errorf("body = %v, want rate 44 active", body)
	}
}

func TestStartFade(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/fades", fadeRequest{
		Targets: []fade.ChannelTarget{
			{Universe: 1, Channel: 1, Value: 255},
			{Universe: 2, Channel: 10, Value: 128},
		},
		DurationSec: 2.5,
		Easing:      "linear",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body: %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["fade_id"] == "" || body["fade_id"] == nil {
		t.Error("fade_id missing from response")
	}
	if body["channels"] != float64(2) {
		t.Errorf("channels = %v, want 2", body["channels"])
	}
	if n := srv.fades.ActiveFadeCount(); n != 1 {
		t.Errorf("active fades = %d, want 1", n)
	}
}

func TestStartFade_Validation(t *testing.T) {
	srv, _, _ := testServer(t)

	tests := []struct {
		name string
		req  fadeRequest
	}{
		{"no targets", fadeRequest{DurationSec: 1}},
		{"negative duration", fadeRequest{
			Targets:     []fade.ChannelTarget{{Universe: 1, Channel: 1, Value: 1}},
			DurationSec: -1,
		}},
		{"bad universe", fadeRequest{
			Targets: []fade.ChannelTarget{{Universe: 9, Channel: 1, Value: 1}},
		}},
		{"bad channel", fadeRequest{
			Targets: []fade.ChannelTarget{{Universe: 1, Channel: 600, Value: 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/fades", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestFadeToBlack(t *testing.T) {
	srv, _, dmxSvc := testServer(t)
	dmxSvc.SetChannelValue(1, 1, 255)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/fades/black", blackoutRequest{DurationSec: 3})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if body := decodeBody(t, rec); body["fade_id"] != fade.FadeToBlackID {
		t.Errorf("fade_id = %v, want %q", body["fade_id"], fade.FadeToBlackID)
	}
}

func TestCancelFade(t *testing.T) {
	srv, _, _ := testServer(t)

	id := srv.fades.FadeChannels([]fade.ChannelTarget{{Universe: 1, Channel: 1, Value: 255}},
		time.Second, fade.FadeOptions{ID: "work-light"})

	rec := doRequest(t, srv, http.MethodDelete, "/api/v1/fades/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if n := srv.fades.ActiveFadeCount(); n != 0 {
		t.Errorf("active fades = %d, want 0", n)
	}
}

func TestCancelAllFades(t *testing.T) {
	srv, _, _ := testServer(t)

	srv.fades.FadeChannels([]fade.ChannelTarget{{Universe: 1, Channel: 1, Value: 255}},
		time.Second, fade.FadeOptions{})
	srv.fades.FadeChannels([]fade.ChannelTarget{{Universe: 2, Channel: 1, Value: 255}},
		time.Second, fade.FadeOptions{})

	rec := doRequest(t, srv, http.MethodDelete, "/api/v1/fades", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if n := srv.fades.ActiveFadeCount(); n != 0 {
		t.Errorf("active fades = %d, want 0", n)
	}
}
