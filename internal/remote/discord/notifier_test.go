package discord

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tftbot/tftbot/internal/event"
)

func TestNotifierPostsMatchFinishedEmbed(t *testing.T) {
	received := make(chan discordgo.WebhookParams, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var p discordgo.WebhookParams
		if err := json.Unmarshal([]byte(r.FormValue("payload_json")), &p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	err := n.Handle(context.Background(), event.MatchFinished(event.Text("abc", "done"), true, 32*time.Minute, 3))
	require.NoError(t, err)

	p := <-received
	require.Len(t, p.Embeds, 1)
	assert.Equal(t, "Match surrendered", p.Embeds[0].Title)
	assert.Equal(t, "3rd", p.Embeds[0].Fields[0].Value)
	assert.Equal(t, "abc", p.Embeds[0].Footer.Text)
}

func TestNotifierAttachesScreenshots(t *testing.T) {
	gotFile := make(chan bool, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			gotFile <- false
			return
		}
		_, _, err := r.FormFile("files[0]")
		gotFile <- err == nil
	}))
	defer srv.Close()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	e := event.MissionCompleted(event.WithScreenshot("", "Mission completed", img), "x.png")
	require.NoError(t, NewNotifier(srv.URL).Handle(context.Background(), e))
	assert.True(t, <-gotFile)
}

func TestNotifierIgnoresPlainText(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	require.NoError(t, NewNotifier(srv.URL).Handle(context.Background(), event.Text("", "noise")))
	assert.False(t, called)
}

func TestNotifierReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewNotifier(srv.URL).Handle(context.Background(), event.PauseToggled(event.Text("", "Paused"), true))
	assert.ErrorContains(t, err, "400")
}
