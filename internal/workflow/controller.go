package workflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"fm-configurator/internal/logger"
)

const (
	MsgNoFile        = "Nahraj fotku."
	MsgRequestFailed = "Request failed"
	MsgNoImage       = "No image returned"
)

// EmbedQueryParam marks a page URL as running inside the storefront frame.
const EmbedQueryParam = "shopify"

var (
	ErrNoFile            = errors.New(MsgNoFile)
	ErrNoImage           = errors.New(MsgNoImage)
	ErrGenerationPending = errors.New("workflow: a generation is already in progress")
)

type Options struct {
	API   TransformAPI
	Store DraftStore
	// Notifier is nil when there is no embedding host to talk to.
	Notifier HostNotifier
	// PageURL is the configurator page address. Relative artifact URLs are
	// resolved against its origin and its query decides embedded mode.
	PageURL string
	Logger  *zap.Logger
	Now     func() time.Time
}

// Controller drives one configurator session. Generate calls are serialized:
// a second call while one is pending fails with ErrGenerationPending.
type Controller struct {
	api      TransformAPI
	store    DraftStore
	notifier HostNotifier
	page     *url.URL
	log      *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
}

func NewController(opts Options) (*Controller, error) {
	if opts.API == nil {
		return nil, errors.New("workflow: transform API is required")
	}
	if opts.Store == nil {
		return nil, errors.New("workflow: draft store is required")
	}

	var page *url.URL
	if opts.PageURL != "" {
		u, err := url.Parse(opts.PageURL)
		if err != nil {
			return nil, fmt.Errorf("workflow: invalid page URL: %w", err)
		}
		page = u
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		api:      opts.API,
		store:    opts.Store,
		notifier: opts.Notifier,
		page:     page,
		log:      logger.OrNop(opts.Logger),
		now:      now,
	}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.Draft != nil {
		d := *s.Draft
		s.Draft = &d
	}
	return s
}

// Embedded reports whether the page was opened inside the storefront frame.
func (c *Controller) Embedded() bool {
	return c.page != nil && c.page.Query().Get(EmbedQueryParam) == "1" && c.notifier != nil
}

// Generate uploads the selected photo, resolves the result and saves it as the
// current draft order. Transient state from the previous attempt is reset
// before anything else happens. Failures are not retried.
func (c *Controller) Generate(ctx context.Context, sub Submission) (*Outcome, error) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return nil, ErrGenerationPending
	}
	c.state = State{Loading: true}
	c.mu.Unlock()

	out, err := c.generate(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.state.Error = err.Error()
		return nil, err
	}
	c.state.ImageSrc = out.ImageSrc
	c.state.Draft = out.Draft
	if out.Draft.GeneratedImageURL != "" {
		c.state.SavedURL = out.Draft.GeneratedImageURL
	}
	return out, nil
}

func (c *Controller) generate(ctx context.Context, sub Submission) (*Outcome, error) {
	if sub.File == nil {
		return nil, ErrNoFile
	}

	res, err := c.api.Transform(ctx, sub)
	if err != nil {
		return nil, err
	}

	out := &Outcome{}
	finalURL := ""

	switch {
	case res.URL != "":
		finalURL, err = c.resolve(res.URL)
		if err != nil {
			return nil, err
		}
		out.ImageSrc = finalURL

		if c.Embedded() {
			msg := DesignReadyMessage{
				Type:      MessageDesignReady,
				DesignURL: finalURL,
				DesignID:  c.designID(res.ID, finalURL),
			}
			if err := c.notifier.Notify(ctx, msg); err != nil {
				c.log.Warn("design-ready notification failed", zap.Error(err))
			} else {
				out.Notified = true
				c.log.Info("sent design-ready message",
					zap.String("design_url", msg.DesignURL),
					zap.String("design_id", msg.DesignID),
				)
			}
		}
	case res.B64 != "":
		mime := res.Mime
		if mime == "" {
			mime = "image/png"
		}
		out.ImageSrc = "data:" + mime + ";base64," + res.B64
	default:
		return nil, ErrNoImage
	}

	draft := &DraftOrder{
		DraftOrderID:      c.newDraftID(),
		CreatedAt:         c.now().UnixMilli(),
		Style:             sub.Style,
		OriginalFileName:  sub.File.Name,
		GeneratedImageURL: finalURL,
		GeneratedImageID:  res.ID,
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, DraftKey, raw); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	out.Draft = draft
	return out, nil
}

// LoadDraft brings the persisted draft back into view. A missing draft is not
// an error: the draft and saved URL are simply cleared.
func (c *Controller) LoadDraft(ctx context.Context) (*DraftOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""

	raw, err := c.store.Get(ctx, DraftKey)
	if errors.Is(err, ErrNotFound) {
		c.state.Draft = nil
		c.state.SavedURL = ""
		return nil, nil
	}
	if err != nil {
		c.state.Error = err.Error()
		return nil, err
	}

	var draft DraftOrder
	if err := json.Unmarshal(raw, &draft); err != nil {
		c.state.Error = err.Error()
		return nil, err
	}

	c.state.Draft = &draft
	c.state.SavedURL = draft.GeneratedImageURL
	d := draft
	return &d, nil
}

func (c *Controller) ClearDraft(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(ctx, DraftKey); err != nil {
		return err
	}
	c.state.Draft = nil
	c.state.SavedURL = ""
	return nil
}

// resolve turns a possibly relative artifact URL into an absolute one on the
// page origin.
func (c *Controller) resolve(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image url: %w", err)
	}
	if c.page == nil {
		return ref.String(), nil
	}
	origin := &url.URL{Scheme: c.page.Scheme, Host: c.page.Host, Path: "/"}
	return origin.ResolveReference(ref).String(), nil
}

func (c *Controller) designID(id, finalURL string) string {
	if id != "" {
		return id
	}
	if u, err := url.Parse(finalURL); err == nil {
		if seg := path.Base(u.Path); seg != "" && seg != "/" && seg != "." {
			return seg
		}
	}
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}

func (c *Controller) newDraftID() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("draft_%d_%s", c.now().UnixMilli(), hex.EncodeToString(buf))
}
