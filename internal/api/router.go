package api

import (
	"net/http"

	"production-scheduler-service/internal/api/handlers"
	"production-scheduler-service/internal/ports"
)

// Deps collects the ports the HTTP surface needs. RoutingProvider and
// EquipmentMembership are separate from the repositories so a caching
// decorator can sit in front of the read paths the scheduler hits.
type Deps struct {
	Products   ports.ProductRepository
	Equipment  ports.EquipmentRepository
	Orders     ports.OrderRepository
	Schedules  ports.ScheduleRepository
	Routings   ports.RoutingProvider
	Membership ports.EquipmentMembership
	Cache      ports.MasterCacheInvalidator
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	productHandler := &handlers.ProductHandler{Repo: deps.Products, Cache: deps.Cache}
	equipmentHandler := &handlers.EquipmentHandler{Repo: deps.Equipment, Cache: deps.Cache}
	orderHandler := &handlers.OrderHandler{
		Orders:    deps.Orders,
		Routings:  deps.Routings,
		Equipment: deps.Membership,
		Schedules: deps.Schedules,
	}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /products", productHandler.Create)
	mux.HandleFunc("GET /products", productHandler.List)
	mux.HandleFunc("GET /products/{id}", productHandler.Get)
	mux.HandleFunc("PATCH /products/{id}", productHandler.Patch)
	mux.HandleFunc("DELETE /products/{id}", productHandler.Delete)
	mux.HandleFunc("POST /products/{id}/routings", productHandler.CreateRouting)
	mux.HandleFunc("GET /products/{id}/routings", productHandler.ListRoutings)
	mux.HandleFunc("DELETE /products/{id}/routings/{routingID}", productHandler.DeleteRouting)

	mux.HandleFunc("POST /equipment", equipmentHandler.Create)
	mux.HandleFunc("GET /equipment", equipmentHandler.List)
	mux.HandleFunc("GET /equipment/{id}", equipmentHandler.Get)
	mux.HandleFunc("PATCH /equipment/{id}", equipmentHandler.Patch)
	mux.HandleFunc("DELETE /equipment/{id}", equipmentHandler.Delete)

	mux.HandleFunc("POST /equipment-groups", equipmentHandler.CreateGroup)
	mux.HandleFunc("GET /equipment-groups", equipmentHandler.ListGroups)
	mux.HandleFunc("GET /equipment-groups/{id}", equipmentHandler.GetGroup)
	mux.HandleFunc("DELETE /equipment-groups/{id}", equipmentHandler.DeleteGroup)
	mux.HandleFunc("POST /equipment-groups/{id}/members", equipmentHandler.AddGroupMember)
	mux.HandleFunc("GET /equipment-groups/{id}/members", equipmentHandler.ListGroupMembers)

	mux.HandleFunc("POST /orders", orderHandler.Create)
	mux.HandleFunc("GET /orders", orderHandler.List)
	mux.HandleFunc("GET /orders/{id}", orderHandler.Get)
	mux.HandleFunc("PATCH /orders/{id}", orderHandler.Patch)
	mux.HandleFunc("DELETE /orders/{id}", orderHandler.Delete)
	mux.HandleFunc("POST /orders/{id}/schedule", orderHandler.Schedule)
	mux.HandleFunc("GET /orders/{id}/schedule", orderHandler.ListSchedule)

	return loggingMiddleware(tenantMiddleware(mux))
}
