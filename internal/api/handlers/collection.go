package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/appshelf/appshelf/internal/api/middleware"
	"github.com/appshelf/appshelf/internal/core/collection"
)

const writeWait = 10 * time.Second

// CollectionHandler serves CRUD, queries and the event stream for one store.
type CollectionHandler[T any] struct {
	store     *collection.Store[T]
	log       zerolog.Logger
	ownerID   string
	ownerName string
	upgrader  websocket.Upgrader
}

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	log       zerolog.Logger
	ownerID   string
	ownerName string
}

func WithHandlerLogger(log zerolog.Logger) HandlerOption {
	return func(o *handlerOptions) { o.log = log }
}

// WithOwner fills idField (and nameField, when set) from the authenticated
// user on create, unless the payload already carries them.
func WithOwner(idField, nameField string) HandlerOption {
	return func(o *handlerOptions) {
		o.ownerID = idField
		o.ownerName = nameField
	}
}

func NewCollectionHandler[T any](store *collection.Store[T], opts ...HandlerOption) *CollectionHandler[T] {
	o := handlerOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &CollectionHandler[T]{
		store:     store,
		log:       o.log.With().Str("collection", store.Name()).Logger(),
		ownerID:   o.ownerID,
		ownerName: o.ownerName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts the collection under /<name>. Reads are public; writes
// run behind authn. The group is returned for extra routes.
func (h *CollectionHandler[T]) Register(api *gin.RouterGroup, authn gin.HandlerFunc) *gin.RouterGroup {
	g := api.Group("/" + h.store.Name())
	g.GET("", h.List)
	g.GET("/events", h.Events)
	g.GET("/:id", h.Get)
	g.POST("", authn, h.Create)
	g.PUT("/:id", authn, h.Update)
	g.DELETE("/:id", authn, h.Delete)
	return g
}

func (h *CollectionHandler[T]) List(c *gin.Context) {
	q, err := collection.ParseQuery(c.Request.URL.Query(), h.store.Describe())
	if err != nil {
		_ = c.Error(err)
		return
	}

	page := h.store.Query(q)
	if c.Query("envelope") == "false" {
		c.JSON(http.StatusOK, page.Items)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CollectionHandler[T]) Get(c *gin.Context) {
	item, err := h.store.Get(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CollectionHandler[T]) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	h.stampOwner(c, payload)

	item, err := h.store.Create(c.Request.Context(), payload)
	respond(c, http.StatusCreated, item, err)
}

func (h *CollectionHandler[T]) Update(c *gin.Context) {
	patch, ok := bindPayload(c)
	if !ok {
		return
	}

	item, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	respond(c, http.StatusOK, item, err)
}

func (h *CollectionHandler[T]) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, gin.H{"message": "deleted"}, err)
}

func (h *CollectionHandler[T]) stampOwner(c *gin.Context, payload map[string]interface{}) {
	if h.ownerID == "" {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return
	}
	if v, _ := payload[h.ownerID].(string); v == "" {
		payload[h.ownerID] = userID
	}
	if h.ownerName != "" {
		if v, _ := payload[h.ownerName].(string); v == "" {
			payload[h.ownerName] = middleware.GetUserName(c)
		}
	}
}

// Events upgrades to a websocket, sends the current state as a reset event
// and then streams every committed change until the client goes away.
func (h *CollectionHandler[T]) Events(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain client frames so close and ping are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	events := h.store.Subscribe(ctx)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(h.store.Current()); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Debug().Err(err).Msg("event stream closed")
				return
			}
		}
	}
}
