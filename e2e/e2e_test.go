package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/kathak/internal/analysis"
	"github.com/ayusman/kathak/internal/app"
	"github.com/ayusman/kathak/internal/capture"
	"github.com/ayusman/kathak/internal/detector"
	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/internal/server"
	"github.com/ayusman/kathak/internal/store"
)

// captureFrames builds a pair of alternating camera frames so the motion
// detector always sees pixel change.
func captureFrames(t *testing.T) []*gocv.Mat {
	t.Helper()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	t.Cleanup(func() {
		black.Close()
		white.Close()
	})
	return []*gocv.Mat{&black, &white}
}

func TestE2E_CaptureToAvatarAndExport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:        s,
		MotionThresh: 0.05,
		RigVersion:   rig.VRM1,
	})
	application.SetCamera(capture.NewMockCamera(captureFrames(t), true))

	mockDetector := detector.NewMockDetector()
	mockDetector.SetFrame(detector.TPoseFrame())
	application.SetDetector(mockDetector)

	srv := server.New(server.Config{Store: s, Camera: application.Camera()})
	application.SetPublisher(srv.Pose())

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/pose"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	if err := application.StartRecording("e2e take"); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()
	application.SetEnabled(true)

	t.Run("AvatarReceivesPoses", func(t *testing.T) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read pose error = %v", err)
		}

		var pose rig.Pose
		if err := json.Unmarshal(msg, &pose); err != nil {
			t.Fatalf("decode pose error = %v", err)
		}
		if _, ok := pose.Bones[rig.RightUpperArm]; !ok {
			t.Error("broadcast pose missing RightUpperArm")
		}
		if pose.Face == nil {
			t.Error("broadcast pose missing face expression")
		}
	})

	// Let the recorder accumulate a few more frames, then seal the take.
	time.Sleep(500 * time.Millisecond)
	if err := application.StopRecording(); err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}

	client := ts.Client()
	var sessionID string

	t.Run("SessionListed", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions")
		if err != nil {
			t.Fatalf("list sessions error = %v", err)
		}
		defer resp.Body.Close()

		var list struct {
			Sessions []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				Frames  int    `json:"frames"`
				EndedAt string `json:"ended_at"`
			} `json:"sessions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decode sessions error = %v", err)
		}
		if len(list.Sessions) != 1 {
			t.Fatalf("got %d sessions, want 1", len(list.Sessions))
		}

		got := list.Sessions[0]
		if got.Name != "e2e take" {
			t.Errorf("session name = %q, want %q", got.Name, "e2e take")
		}
		if got.Frames == 0 {
			t.Error("sealed session recorded no frames")
		}
		if got.EndedAt == "" {
			t.Error("sealed session has no end time")
		}
		sessionID = got.ID
	})

	t.Run("FramesExported", func(t *testing.T) {
		if sessionID == "" {
			t.Skip("no session from previous step")
		}
		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID + "/frames")
		if err != nil {
			t.Fatalf("export frames error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var export struct {
			Frames []struct {
				Sequence int             `json:"sequence"`
				Output   json.RawMessage `json:"output"`
			} `json:"frames"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&export); err != nil {
			t.Fatalf("decode frames error = %v", err)
		}
		if len(export.Frames) == 0 {
			t.Fatal("export contains no frames")
		}

		var output struct {
			Raw      *rig.Pose `json:"raw"`
			Smoothed *rig.Pose `json:"smoothed"`
		}
		if err := json.Unmarshal(export.Frames[0].Output, &output); err != nil {
			t.Fatalf("decode frame output error = %v", err)
		}
		if output.Raw == nil || output.Smoothed == nil {
			t.Error("exported frame missing raw or smoothed pose")
		}
	})

	t.Run("SessionAnalyzable", func(t *testing.T) {
		if sessionID == "" {
			t.Skip("no session from previous step")
		}
		data, err := analysis.Load(s, sessionID)
		if err != nil {
			t.Fatalf("analysis.Load() error = %v", err)
		}
		report := data.Analyze()
		if report.Frames == 0 {
			t.Error("analysis saw no frames")
		}

		var html strings.Builder
		if err := data.RenderHTML(&html, report); err != nil {
			t.Fatalf("RenderHTML() error = %v", err)
		}
		if html.Len() == 0 {
			t.Error("rendered report is empty")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Error("health check failed after capture run")
		}
	})
}

func TestE2E_RigVersionPersistsAcrossRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	application := app.New(app.Config{Store: s, RigVersion: rig.VRM1})
	application.SetRigVersion(rig.VRM0)
	s.Close()

	// A second run restores the persisted version the way main does.
	s2, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() reopen error = %v", err)
	}
	defer s2.Close()

	v, err := s2.Settings().GetDefault(store.SettingRigVersion, rig.VRM1.String())
	if err != nil {
		t.Fatalf("GetDefault() error = %v", err)
	}
	restored := app.New(app.Config{Store: s2, RigVersion: rig.ParseVersion(v)})
	if restored.RigVersion() != rig.VRM0 {
		t.Errorf("restored rig version = %v, want %v", restored.RigVersion(), rig.VRM0)
	}
}
