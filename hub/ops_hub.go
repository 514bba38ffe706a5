package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/stevedore-app/models"
)

// Event types
const (
	EventAlertCreated    = "alert_created"
	EventAlertDismissed  = "alert_dismissed"
	EventOperationUpdate = "operation_update"
	EventVesselUpdate    = "vessel_update"
	EventBerthUpdate     = "berth_update"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OpsHub holds all connected dashboard clients and fans events out to them.
type OpsHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var opsHub = OpsHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	opsHub.mutex.Lock()
	defer opsHub.mutex.Unlock()
	opsHub.clients[conn] = role
}

// UnregisterClient drops a connection.
func UnregisterClient(conn *websocket.Conn) {
	opsHub.mutex.Lock()
	defer opsHub.mutex.Unlock()
	delete(opsHub.clients, conn)
	conn.Close()
}

// BroadcastAlertCreated pushes a freshly created alert to every client.
func BroadcastAlertCreated(alert models.Alert) {
	broadcast(Message{
		Event: EventAlertCreated,
		Data:  alert,
	})
}

// BroadcastAlertDismissed announces a dismissal so dashboards can drop it.
func BroadcastAlertDismissed(alert models.Alert) {
	broadcast(Message{
		Event: EventAlertDismissed,
		Data: map[string]interface{}{
			"alert_id":     alert.ID,
			"dismissed_by": alert.DismissedBy,
		},
	})
}

// BroadcastOperationUpdate pushes an operation status/progress change.
func BroadcastOperationUpdate(op models.MaritimeOperation) {
	broadcast(Message{
		Event: EventOperationUpdate,
		Data:  op,
	})
}

// BroadcastVesselUpdate pushes a vessel status change.
func BroadcastVesselUpdate(vessel models.Vessel) {
	broadcast(Message{
		Event: EventVesselUpdate,
		Data:  vessel,
	})
}

// BroadcastBerthUpdate pushes a berth status change.
func BroadcastBerthUpdate(berth models.Berth) {
	broadcast(Message{
		Event: EventBerthUpdate,
		Data:  berth,
	})
}

// BroadcastMessage sends an arbitrary event to every client.
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	opsHub.mutex.Lock()
	defer opsHub.mutex.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling hub message: %v", err)
		return
	}

	for conn := range opsHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Error writing to ws client: %v", err)
			conn.Close()
			delete(opsHub.clients, conn)
		}
	}
}
