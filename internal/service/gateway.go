package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"krishimitra/internal/logger"
	"krishimitra/internal/models"
	"krishimitra/internal/repository"
)

// RemoteConfig describes the remote advisory endpoint and retry policy.
// MaxAttempts counts total tries per request: one initial try plus
// MaxAttempts-1 retries.
type RemoteConfig struct {
	BaseURL        string
	AttemptTimeout time.Duration
	MaxAttempts    int
}

// DefaultRemoteConfig returns the stock gateway tuning.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		BaseURL:        "",
		AttemptTimeout: 3 * time.Second,
		MaxAttempts:    2,
	}
}

// kvKeySchemes caches the last scheme payload the remote returned.
const kvKeySchemes = "schemes:last"

// GatewayService routes requests to the remote advisory endpoint and falls
// back to the local engines when it cannot. Callers see the same response
// shape either way; only the Offline flag differs.
//
// State machine: Online --(probe/request failure)--> Offline;
// Offline --(health probe ok)--> Online + FIFO queue replay. While a
// request is being retried the state reads Retrying.
type GatewayService struct {
	assistant  Assistant
	irrigation Irrigation
	readings   Readings
	queue      repository.QueueRepo
	kv         repository.KVRepo
	log        *logger.Logger
	cfg        RemoteConfig
	client     *http.Client

	mu           sync.Mutex
	state        string
	lastOnlineAt *time.Time
}

func NewGatewayService(assistant Assistant, irrigation Irrigation, readings Readings,
	queue repository.QueueRepo, kv repository.KVRepo, log *logger.Logger, cfg RemoteConfig) *GatewayService {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultRemoteConfig().AttemptTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRemoteConfig().MaxAttempts
	}
	state := models.GatewayOnline
	if cfg.BaseURL == "" {
		// No remote configured: permanently offline, always local.
		state = models.GatewayOffline
	}
	return &GatewayService{
		assistant:  assistant,
		irrigation: irrigation,
		readings:   readings,
		queue:      queue,
		kv:         kv,
		log:        log,
		cfg:        cfg,
		client:     &http.Client{},
		state:      state,
	}
}

// remoteChatResponse mirrors POST /chat's body. It is shaped identically
// to the local composer output so fallback is transparent.
type remoteChatResponse struct {
	Message string                   `json:"message"`
	Data    models.BilingualResponse `json:"data"`
}

// remoteIrrigationResponse mirrors GET /irrigation's body.
type remoteIrrigationResponse struct {
	ShouldIrrigate bool    `json:"shouldIrrigate"`
	WaterAmount    float64 `json:"waterAmount"`
	Reason         string  `json:"reason"`
	Urgency        string  `json:"urgency"`
}

// Chat answers an utterance, remote-first. On any failure the identical
// response shape is re-derived locally with Offline set.
func (g *GatewayService) Chat(ctx context.Context, message string) (models.BilingualResponse, error) {
	if g.currentState() != models.GatewayOffline {
		body, err := json.Marshal(map[string]string{"message": message})
		if err == nil {
			raw, reqErr := g.doRequest(ctx, http.MethodPost, "/chat", body)
			if reqErr == nil {
				var remote remoteChatResponse
				uErr := json.Unmarshal(raw, &remote)
				if uErr == nil {
					g.markOnline(ctx)
					remote.Data.Offline = false
					return remote.Data, nil
				}
				g.log.Errorw("gateway_chat_bad_body", "err", uErr)
			} else {
				g.log.Infow("gateway_chat_remote_failed", "err", reqErr)
			}
		}
		g.markOffline()
	}

	resp, err := g.assistant.AcceptUtterance(ctx, message)
	if err != nil {
		return models.BilingualResponse{}, err
	}
	resp.Offline = true
	return resp, nil
}

// IrrigationAdvice returns the irrigation verdict as a bilingual response,
// remote-first with local fallback.
func (g *GatewayService) IrrigationAdvice(ctx context.Context) (models.BilingualResponse, error) {
	if g.currentState() != models.GatewayOffline {
		raw, reqErr := g.doRequest(ctx, http.MethodGet, "/irrigation", nil)
		if reqErr == nil {
			var remote remoteIrrigationResponse
			if err := json.Unmarshal(raw, &remote); err == nil {
				g.markOnline(ctx)
				return irrigationResponse(remote.ShouldIrrigate, remote.WaterAmount, remote.Reason, remote.Urgency, false), nil
			}
		} else {
			g.log.Infow("gateway_irrigation_remote_failed", "err", reqErr)
		}
		g.markOffline()
	}

	v, err := g.irrigation.Evaluate(ctx)
	if err != nil {
		return models.BilingualResponse{}, err
	}
	resp := irrigationResponse(v.Action == models.ActionIrrigate, v.AmountMm, v.Reason, v.Urgency, true)
	resp.TextHindi = tonePrefix(v.Urgency) + v.ReasonHindi
	resp.ConfidencePct = v.ConfidencePct
	return resp, nil
}

// irrigationResponse renders the shared remote/local irrigation shape.
func irrigationResponse(shouldIrrigate bool, amount float64, reason, urgency string, offline bool) models.BilingualResponse {
	action := models.ActionWait
	if shouldIrrigate {
		action = models.ActionIrrigate
	}
	resp := models.BilingualResponse{
		Text:          tonePrefix(urgency) + reason,
		TextHindi:     tonePrefix(urgency) + reason,
		Action:        action,
		ConfidencePct: 85,
		DataUsed:      []string{"soil_moisture_pct", "is_raining", "temperature_c", "crop.type"},
		Offline:       offline,
	}
	if shouldIrrigate {
		resp.Value = &amount
		resp.Unit = "mm"
	}
	return resp
}

// Snapshot returns the farm snapshot, remote-first. On any failure the
// local store answers with Offline set.
func (g *GatewayService) Snapshot(ctx context.Context) (models.FarmState, error) {
	if g.currentState() != models.GatewayOffline {
		raw, reqErr := g.doRequest(ctx, http.MethodGet, "/sensors", nil)
		if reqErr == nil {
			var remote models.FarmState
			uErr := json.Unmarshal(raw, &remote)
			if uErr == nil {
				g.markOnline(ctx)
				remote.Offline = false
				return remote, nil
			}
			g.log.Errorw("gateway_snapshot_bad_body", "err", uErr)
		} else {
			g.log.Infow("gateway_snapshot_remote_failed", "err", reqErr)
		}
		g.markOffline()
	}

	state, err := g.readings.Get(ctx)
	if err != nil {
		return models.FarmState{}, err
	}
	state.Offline = true
	return state, nil
}

// Weather returns the weather snapshot, remote-first with the local store
// as fallback.
func (g *GatewayService) Weather(ctx context.Context) (models.WeatherSnapshot, error) {
	if g.currentState() != models.GatewayOffline {
		raw, reqErr := g.doRequest(ctx, http.MethodGet, "/weather", nil)
		if reqErr == nil {
			var remote models.WeatherSnapshot
			uErr := json.Unmarshal(raw, &remote)
			if uErr == nil {
				g.markOnline(ctx)
				remote.Offline = false
				return remote, nil
			}
			g.log.Errorw("gateway_weather_bad_body", "err", uErr)
		} else {
			g.log.Infow("gateway_weather_remote_failed", "err", reqErr)
		}
		g.markOffline()
	}

	state, err := g.readings.Get(ctx)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}
	w := state.Weather
	w.Offline = true
	return w, nil
}

// PushStateChange mirrors a local mutation to the remote, best-effort.
// While offline (or on failure) the request is queued for replay; queueing
// failures are logged, never surfaced.
func (g *GatewayService) PushStateChange(ctx context.Context, path, body string) {
	if g.currentState() != models.GatewayOffline {
		if _, err := g.doRequest(ctx, http.MethodPost, path, []byte(body)); err == nil {
			g.markOnline(ctx)
			return
		}
		g.markOffline()
	}

	if err := g.queue.Enqueue(ctx, models.QueuedRequest{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	}); err != nil {
		g.log.Errorw("gateway_enqueue_failed", "path", path, "err", err)
	}
}

// Status reports the connectivity state and queue depth.
func (g *GatewayService) Status(ctx context.Context) models.SyncStatus {
	depth, err := g.queue.Depth(ctx)
	if err != nil {
		g.log.Errorw("gateway_queue_depth_failed", "err", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return models.SyncStatus{
		State:        g.state,
		QueueDepth:   depth,
		LastOnlineAt: g.lastOnlineAt,
	}
}

// RunHealthLoop probes the remote /health on a tick while offline and
// replays the queue when connectivity returns. Stop via ctx cancellation.
func (g *GatewayService) RunHealthLoop(ctx context.Context, tick time.Duration) {
	if g.cfg.BaseURL == "" {
		return
	}
	if g.currentState() == models.GatewayOnline {
		// Warm the reference-data cache while we believe the remote is up.
		g.refreshSchemes(ctx)
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if g.currentState() != models.GatewayOffline {
				continue
			}
			if err := g.probeHealth(ctx); err != nil {
				g.log.Debugw("gateway_probe_failed", "err", err)
				continue
			}
			g.markOnline(ctx)
		}
	}
}

// probeHealth performs a single GET /health with the per-attempt timeout.
func (g *GatewayService) probeHealth(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, g.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, g.cfg.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe returned %d", resp.StatusCode)
	}
	return nil
}

// refreshSchemes re-fetches the remote reference data; doAttempt stores
// the body under kvKeySchemes. Best-effort, failures only logged.
func (g *GatewayService) refreshSchemes(ctx context.Context) {
	if _, err := g.doRequest(ctx, http.MethodGet, "/schemes", nil); err != nil {
		g.log.Debugw("gateway_schemes_refresh_failed", "err", err)
	}
}

// doRequest performs one outbound request with up to MaxAttempts tries,
// each under its own timeout. A timed-out attempt is indistinguishable
// from a network failure; both exhaust into the same error.
func (g *GatewayService) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			g.setState(models.GatewayRetrying)
		}
		raw, err := g.doAttempt(ctx, method, path, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break // caller aborted; do not burn remaining attempts
		}
	}
	return nil, lastErr
}

func (g *GatewayService) doAttempt(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.AttemptTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	// Opportunistically refresh the reference-data cache.
	if strings.HasPrefix(path, "/schemes") {
		if err := g.kv.Set(ctx, kvKeySchemes, string(raw)); err != nil {
			g.log.Debugw("gateway_cache_set_failed", "err", err)
		}
	}
	return raw, nil
}

// replayQueue replays pending requests FIFO with the same retry policy.
// Failures re-queue silently and stop the replay; they are never surfaced
// as new errors to the user.
func (g *GatewayService) replayQueue(ctx context.Context) {
	pending, err := g.queue.ListFIFO(ctx)
	if err != nil {
		g.log.Errorw("gateway_replay_list_failed", "err", err)
		return
	}
	for _, q := range pending {
		if _, err := g.doRequest(ctx, q.Method, q.Path, []byte(q.Body)); err != nil {
			g.log.Infow("gateway_replay_failed", "id", q.ID, "path", q.Path, "err", err)
			if rqErr := g.queue.Requeue(ctx, q); rqErr != nil {
				g.log.Errorw("gateway_requeue_failed", "id", q.ID, "err", rqErr)
			}
			g.markOffline()
			return
		}
		if err := g.queue.Remove(ctx, q.ID); err != nil {
			g.log.Errorw("gateway_replay_remove_failed", "id", q.ID, "err", err)
		}
	}
	if len(pending) > 0 {
		g.log.Infow("gateway_replay_done", "replayed", len(pending))
	}
}

func (g *GatewayService) currentState() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *GatewayService) setState(state string) {
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()
}

func (g *GatewayService) markOffline() {
	g.mu.Lock()
	was := g.state
	g.state = models.GatewayOffline
	g.mu.Unlock()
	if was != models.GatewayOffline {
		g.log.Infow("gateway_offline")
	}
}

// markOnline transitions to Online and, if we were offline, replays the
// pending queue.
func (g *GatewayService) markOnline(ctx context.Context) {
	g.mu.Lock()
	was := g.state
	g.state = models.GatewayOnline
	now := time.Now().UTC()
	g.lastOnlineAt = &now
	g.mu.Unlock()

	if was == models.GatewayOffline {
		g.log.Infow("gateway_online")
		g.replayQueue(ctx)
		g.refreshSchemes(ctx)
	}
}
