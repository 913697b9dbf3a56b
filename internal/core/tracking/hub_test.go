package tracking_test

import (
	"errors"
	"sync"
	"testing"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/core/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObserver struct {
	id   string
	mu   sync.Mutex
	got  []tracking.Event
	fail bool
}

func newFakeObserver(id string) *fakeObserver {
	return &fakeObserver{id: id}
}

func (o *fakeObserver) ID() string { return o.id }

func (o *fakeObserver) Send(event tracking.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return errors.New("connection gone")
	}
	o.got = append(o.got, event)
	return nil
}

func (o *fakeObserver) events() []tracking.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]tracking.Event(nil), o.got...)
}

func (o *fakeObserver) kinds() []string {
	var kinds []string
	for _, e := range o.events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestHub_JoinAndBroadcast(t *testing.T) {
	hub := tracking.NewHub(nil)
	deliveryID := kernel.NewUUID()

	member := newFakeObserver("member")
	outsider := newFakeObserver("outsider")

	hub.Join(member, deliveryID.String())
	hub.Join(outsider, kernel.NewUUID().String())

	hub.Broadcast(deliveryID, ports.EventLocationUpdate, map[string]any{"lat": 19.1})

	require.Equal(t, []string{tracking.KindJoinedDelivery, "location_update"}, member.kinds())
	assert.Equal(t, []string{tracking.KindJoinedDelivery}, outsider.kinds(),
		"broadcast must stay inside the delivery's room")

	got := member.events()[1]
	assert.Equal(t, deliveryID.String(), got.DeliveryID)
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub := tracking.NewHub(nil)
	deliveryID := kernel.NewUUID()
	member := newFakeObserver("member")

	hub.Join(member, deliveryID.String())
	hub.Join(member, deliveryID.String())

	assert.Equal(t, 1, hub.MemberCount(deliveryID.String()))

	hub.Broadcast(deliveryID, ports.EventStopCompleted, nil)

	// Two join acks plus exactly one copy of the broadcast.
	assert.Equal(t,
		[]string{tracking.KindJoinedDelivery, tracking.KindJoinedDelivery, "stop_completed"},
		member.kinds())
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := tracking.NewHub(nil)
	deliveryID := kernel.NewUUID()

	leaver := newFakeObserver("leaver")
	stayer := newFakeObserver("stayer")
	hub.Join(leaver, deliveryID.String())
	hub.Join(stayer, deliveryID.String())

	hub.Leave(leaver, deliveryID.String())
	hub.Broadcast(deliveryID, ports.EventDeliveryCompleted, nil)

	assert.Equal(t, []string{tracking.KindJoinedDelivery, tracking.KindLeftDelivery}, leaver.kinds())
	assert.Contains(t, stayer.kinds(), "delivery_completed")
}

func TestHub_LeaveUnknownRoomIsNoOp(t *testing.T) {
	hub := tracking.NewHub(nil)
	observer := newFakeObserver("observer")

	hub.Leave(observer, kernel.NewUUID().String())

	assert.Equal(t, []string{tracking.KindLeftDelivery}, observer.kinds())
}

func TestHub_DisconnectSweepsAllRooms(t *testing.T) {
	hub := tracking.NewHub(nil)
	first := kernel.NewUUID()
	second := kernel.NewUUID()

	observer := newFakeObserver("observer")
	hub.Join(observer, first.String())
	hub.Join(observer, second.String())

	hub.Disconnect(observer)

	hub.Broadcast(first, ports.EventLocationUpdate, nil)
	hub.Broadcast(second, ports.EventLocationUpdate, nil)

	// Only the two join acks, nothing after the disconnect.
	assert.Equal(t, []string{tracking.KindJoinedDelivery, tracking.KindJoinedDelivery}, observer.kinds())
	assert.Empty(t, hub.Rooms())
}

func TestHub_FailingObserverDoesNotAffectOthers(t *testing.T) {
	hub := tracking.NewHub(nil)
	deliveryID := kernel.NewUUID()

	broken := newFakeObserver("broken")
	broken.fail = true
	healthy := newFakeObserver("healthy")

	hub.Join(broken, deliveryID.String())
	hub.Join(healthy, deliveryID.String())

	hub.Broadcast(deliveryID, ports.EventLocationUpdate, nil)

	assert.Contains(t, healthy.kinds(), "location_update")
}

func TestHub_CloseRoom(t *testing.T) {
	hub := tracking.NewHub(nil)
	deliveryID := kernel.NewUUID()

	observer := newFakeObserver("observer")
	hub.Join(observer, deliveryID.String())

	hub.CloseRoom(deliveryID.String())

	assert.Zero(t, hub.MemberCount(deliveryID.String()))
	assert.Empty(t, hub.Rooms())

	hub.Broadcast(deliveryID, ports.EventLocationUpdate, nil)
	assert.Equal(t, []string{tracking.KindJoinedDelivery}, observer.kinds())
}

func TestHub_SendError(t *testing.T) {
	hub := tracking.NewHub(nil)
	observer := newFakeObserver("observer")

	hub.SendError(observer, "delivery not found")

	events := observer.events()
	require.Len(t, events, 1)
	assert.Equal(t, tracking.KindError, events[0].Kind)
	assert.Equal(t, tracking.ErrorPayload{Message: "delivery not found"}, events[0].Payload)
}

func TestHub_ConcurrentMembershipAndBroadcast(t *testing.T) {
	hub := tracking.NewHub(nil)
	deliveryID := kernel.NewUUID()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		observer := newFakeObserver(string(rune('a' + i)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Join(observer, deliveryID.String())
			hub.Broadcast(deliveryID, ports.EventLocationUpdate, nil)
			hub.Leave(observer, deliveryID.String())
			hub.Disconnect(observer)
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.MemberCount(deliveryID.String()))
}
