package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-order-insights/internal/logger"
	"github.com/imrishuroy/go-order-insights/internal/orders"
	"github.com/imrishuroy/go-order-insights/internal/validation"
)

// MessagePublisher enqueues a JSON message. *aws.Publisher satisfies it.
type MessagePublisher interface {
	Publish(ctx context.Context, payload interface{}, attributes map[string]string) (string, error)
}

// HandlerConfig groups dependencies for the admin handlers.
type HandlerConfig struct {
	Source     orders.Source
	Publisher  MessagePublisher // optional; nil skips status-change messages
	Aggregator *orders.Aggregator
}

// orderView is an order as the dashboard lists it.
type orderView struct {
	orders.OrderRecord
	DisplayNumber string  `json:"displayNumber"`
	CustomerName  string  `json:"customerName,omitempty"`
	Amount        float64 `json:"amount"`
}

func newOrderView(o orders.OrderRecord) orderView {
	return orderView{
		OrderRecord:   o,
		DisplayNumber: o.DisplayNumber(),
		CustomerName:  o.CustomerName(),
		Amount:        o.Amount(),
	}
}

func newOrderViews(list []orders.OrderRecord) []orderView {
	out := make([]orderView, 0, len(list))
	for _, o := range list {
		out = append(out, newOrderView(o))
	}
	return out
}

// RegisterAdminRoutes registers the dashboard routes under /admin.
func RegisterAdminRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	if cfg.Aggregator == nil {
		cfg.Aggregator = orders.NewAggregator()
	}
	h := &adminHandler{cfg: cfg}

	admin := r.Group("/admin")
	admin.GET("/orders", func(c *gin.Context) {
		var req validation.OrdersQueryRequest
		if err := validation.BindQueryAndValidate(c, &req, v); err != nil {
			return
		}
		h.listOrders(c, req)
	})
	admin.GET("/orders/:id", h.getOrder)
	admin.GET("/stats", func(c *gin.Context) {
		var req validation.StatsRequest
		if err := validation.BindQueryAndValidate(c, &req, v); err != nil {
			return
		}
		h.stats(c, req.Range())
	})
	admin.PUT("/orders/:id/status", func(c *gin.Context) {
		var req validation.StatusUpdateRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		status := orders.Status(req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "status": req.Status})
			return
		}
		h.transition(c, func(ctx context.Context, id string) (*orders.OrderRecord, error) {
			return h.cfg.Source.UpdateStatus(ctx, id, status)
		})
	})
	admin.PUT("/orders/:id/deliver", func(c *gin.Context) {
		h.transition(c, h.cfg.Source.MarkDelivered)
	})
}

type adminHandler struct {
	cfg HandlerConfig
}

func (h *adminHandler) listOrders(c *gin.Context, req validation.OrdersQueryRequest) {
	params, err := req.ToQueryParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_query", "msg": err.Error()})
		return
	}

	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}

	res, err := orders.Query(snapshot, params)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_query", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query_failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     newOrderViews(res.Orders),
		"totalCount": res.TotalCount,
		"page":       res.Page,
		"pageSize":   res.PageSize,
		"totalPages": res.TotalPages(),
	})
}

func (h *adminHandler) getOrder(c *gin.Context) {
	id := c.Param("id")
	o, err := h.cfg.Source.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.upstreamFailed(c, "get order", err)
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found", "order_id": id})
		return
	}
	c.JSON(http.StatusOK, newOrderView(*o))
}

func (h *adminHandler) stats(c *gin.Context, r orders.TimeRange) {
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	st, err := h.cfg.Aggregator.Aggregate(snapshot, r)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats_failed", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// transition applies a status change and enqueues a status-change message.
// A failed enqueue is logged but does not undo the transition.
func (h *adminHandler) transition(c *gin.Context, apply func(ctx context.Context, id string) (*orders.OrderRecord, error)) {
	ctx := c.Request.Context()
	id := c.Param("id")

	o, err := apply(ctx, id)
	if errors.Is(err, orders.ErrStatusUpdateNotSupported) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "status_update_not_supported", "msg": err.Error()})
		return
	}
	if err != nil {
		h.upstreamFailed(c, "update status", err)
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found", "order_id": id})
		return
	}

	enqueued := false
	if h.cfg.Publisher != nil {
		enqueued = h.publishStatusChange(c, *o)
	}

	c.JSON(http.StatusOK, gin.H{"order": newOrderView(*o), "enqueued": enqueued})
}

func (h *adminHandler) publishStatusChange(c *gin.Context, o orders.OrderRecord) bool {
	idempKey := c.GetHeader("Idempotency-Key")
	if idempKey == "" {
		idempKey = uuid.NewString()
	}
	correlationID := c.GetHeader("X-Request-Id")
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	msg := orders.StatusChangedMessage{
		OrderID:        o.ID,
		Status:         o.Status,
		IdempotencyKey: idempKey,
		CorrelationID:  correlationID,
	}
	attrs := map[string]string{
		"idempotency_key": idempKey,
		"order_id":        o.ID,
		"correlation_id":  correlationID,
	}

	msgID, err := h.cfg.Publisher.Publish(c.Request.Context(), msg, attrs)
	if err != nil {
		logger.Log.Error("enqueue status change failed",
			zap.String("order_id", o.ID),
			zap.String("idempotency_key", idempKey),
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
		_ = c.Error(err)
		return false
	}
	logger.Log.Info("status change enqueued",
		zap.String("order_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.String("message_id", msgID),
		zap.String("correlation_id", correlationID),
	)
	return true
}

// snapshot loads the full collection once for the request.
func (h *adminHandler) snapshot(c *gin.Context) ([]orders.OrderRecord, bool) {
	list, err := h.cfg.Source.ListOrders(c.Request.Context())
	if err != nil {
		h.upstreamFailed(c, "list orders", err)
		return nil, false
	}
	return list, true
}

func (h *adminHandler) upstreamFailed(c *gin.Context, op string, err error) {
	logger.Log.Error("order source failed", zap.String("op", op), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_failed", "detail": err.Error()})
}
