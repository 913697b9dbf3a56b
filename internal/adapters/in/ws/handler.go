package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/tracking"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Inbound event types accepted on the tracking socket.
const (
	eventJoinDelivery      = "join_delivery"
	eventLeaveDelivery     = "leave_delivery"
	eventLocationUpdate    = "location_update"
	eventStopCompleted     = "stop_completed"
	eventDeliveryCompleted = "delivery_completed"
	eventGetDeliveryStatus = "get_delivery_status"

	// kindDeliveryStatus is the reply to a get_delivery_status request.
	kindDeliveryStatus = "delivery_status"
)

// DeliveryQueryHandler serves the snapshot reply for get_delivery_status.
type DeliveryQueryHandler interface {
	Handle(ctx context.Context, query queries.GetDeliveryQuery) (queries.GetDeliveryQueryResponse, error)
}

// inboundMessage is the envelope of every client-to-server message.
type inboundMessage struct {
	Event      string          `json:"event"`
	DeliveryID string          `json:"deliveryId"`
	Data       json.RawMessage `json:"data"`
}

type locationUpdateData struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type stopCompletedData struct {
	StopIndex int `json:"stopIndex"`
}

// deliveryStatusPayload is the body of a delivery_status reply.
type deliveryStatusPayload struct {
	DeliveryID        string     `json:"deliveryId"`
	RouteID           string     `json:"routeId"`
	Status            string     `json:"status"`
	CurrentLocation   *location  `json:"currentLocation,omitempty"`
	LocationUpdatedAt *time.Time `json:"locationUpdatedAt,omitempty"`
	CompletedStops    []int      `json:"completedStops"`
	StopCount         int        `json:"stopCount"`
}

type location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Handler upgrades tracking connections and dispatches inbound events.
type Handler struct {
	hub                     *tracking.Hub
	updateLocationHandler   commands.UpdateLocationCommandHandler
	completeStopHandler     commands.CompleteStopCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	getDeliveryHandler      DeliveryQueryHandler

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the websocket tracking handler. A nil logger falls
// back to slog.Default.
func NewHandler(
	hub *tracking.Hub,
	updateLocationHandler commands.UpdateLocationCommandHandler,
	completeStopHandler commands.CompleteStopCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	getDeliveryHandler DeliveryQueryHandler,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		hub:                     hub,
		updateLocationHandler:   updateLocationHandler,
		completeStopHandler:     completeStopHandler,
		completeDeliveryHandler: completeDeliveryHandler,
		getDeliveryHandler:      getDeliveryHandler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "ws"),
	}
}

// Serve handles GET /ws/track - upgrades the connection and pumps events
// until the client disconnects.
func (h *Handler) Serve(ctx echo.Context) error {
	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := newClient(conn, h.logger)
	go client.writePump()

	h.readPump(ctx.Request().Context(), client)
	return nil
}

// readPump reads inbound messages until the connection drops, then sweeps
// the client from all rooms.
func (h *Handler) readPump(ctx context.Context, client *Client) {
	defer func() {
		h.hub.Disconnect(client)
		client.close()
	}()

	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message inboundMessage
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("connection dropped", "clientId", client.ID(), "error", err)
			}
			return
		}
		_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))

		h.dispatch(ctx, client, message)
	}
}

// dispatch routes one inbound message to its handler. Failures go back to
// the offending client only.
func (h *Handler) dispatch(ctx context.Context, client *Client, message inboundMessage) {
	switch message.Event {
	case eventJoinDelivery:
		h.hub.Join(client, message.DeliveryID)
	case eventLeaveDelivery:
		h.hub.Leave(client, message.DeliveryID)
	case eventLocationUpdate:
		h.handleLocationUpdate(ctx, client, message)
	case eventStopCompleted:
		h.handleStopCompleted(ctx, client, message)
	case eventDeliveryCompleted:
		h.handleDeliveryCompleted(ctx, client, message)
	case eventGetDeliveryStatus:
		h.handleGetDeliveryStatus(ctx, client, message)
	default:
		h.hub.SendError(client, "unknown event: "+message.Event)
	}
}

func (h *Handler) handleLocationUpdate(ctx context.Context, client *Client, message inboundMessage) {
	deliveryID, err := kernel.UUIDFromString(message.DeliveryID)
	if err != nil {
		h.hub.SendError(client, "invalid delivery identifier")
		return
	}

	var data locationUpdateData
	if err = json.Unmarshal(message.Data, &data); err != nil {
		h.hub.SendError(client, "invalid location payload")
		return
	}

	coordinate, err := kernel.NewCoordinate(data.Address, data.Latitude, data.Longitude)
	if err != nil {
		h.hub.SendError(client, "invalid coordinates: "+err.Error())
		return
	}

	cmd, err := commands.NewUpdateLocationCommand(deliveryID, coordinate, time.Now().UTC())
	if err != nil {
		h.hub.SendError(client, err.Error())
		return
	}

	if err = h.updateLocationHandler.Handle(ctx, cmd); err != nil {
		h.hub.SendError(client, err.Error())
	}
}

func (h *Handler) handleStopCompleted(ctx context.Context, client *Client, message inboundMessage) {
	deliveryID, err := kernel.UUIDFromString(message.DeliveryID)
	if err != nil {
		h.hub.SendError(client, "invalid delivery identifier")
		return
	}

	var data stopCompletedData
	if err = json.Unmarshal(message.Data, &data); err != nil {
		h.hub.SendError(client, "invalid stop payload")
		return
	}

	cmd, err := commands.NewCompleteStopCommand(deliveryID, data.StopIndex)
	if err != nil {
		h.hub.SendError(client, err.Error())
		return
	}

	if err = h.completeStopHandler.Handle(ctx, cmd); err != nil {
		h.hub.SendError(client, err.Error())
	}
}

func (h *Handler) handleDeliveryCompleted(ctx context.Context, client *Client, message inboundMessage) {
	deliveryID, err := kernel.UUIDFromString(message.DeliveryID)
	if err != nil {
		h.hub.SendError(client, "invalid delivery identifier")
		return
	}

	cmd, err := commands.NewCompleteDeliveryCommand(deliveryID)
	if err != nil {
		h.hub.SendError(client, err.Error())
		return
	}

	if err = h.completeDeliveryHandler.Handle(ctx, cmd); err != nil {
		h.hub.SendError(client, err.Error())
	}
}

// handleGetDeliveryStatus replies with the tracking snapshot, the catch-up
// path for observers that joined after events were broadcast.
func (h *Handler) handleGetDeliveryStatus(ctx context.Context, client *Client, message inboundMessage) {
	deliveryID, err := kernel.UUIDFromString(message.DeliveryID)
	if err != nil {
		h.hub.SendError(client, "invalid delivery identifier")
		return
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		h.hub.SendError(client, err.Error())
		return
	}

	snapshot, err := h.getDeliveryHandler.Handle(ctx, query)
	if err != nil {
		h.hub.SendError(client, err.Error())
		return
	}

	payload := deliveryStatusPayload{
		DeliveryID:        snapshot.ID.String(),
		RouteID:           snapshot.RouteID.String(),
		Status:            snapshot.Status,
		LocationUpdatedAt: snapshot.LocationUpdatedAt,
		CompletedStops:    snapshot.CompletedStops,
		StopCount:         snapshot.StopCount,
	}
	if payload.CompletedStops == nil {
		payload.CompletedStops = make([]int, 0)
	}
	if snapshot.CurrentLocation != nil {
		payload.CurrentLocation = &location{
			Address:   snapshot.CurrentLocation.Address,
			Latitude:  snapshot.CurrentLocation.Latitude,
			Longitude: snapshot.CurrentLocation.Longitude,
		}
	}

	if err = client.Send(tracking.Event{
		Kind:       kindDeliveryStatus,
		DeliveryID: message.DeliveryID,
		Payload:    payload,
	}); err != nil {
		h.logger.Warn("snapshot delivery failed", "clientId", client.ID(), "error", err)
	}
}
