// internal/handlers/router.go
package handlers

import "net/http"

const apiV1 = "/api/v1"

// Router groups the handlers served by the API
type Router struct {
	Inventory *InventoryHandler
	Export    *ExportHandler
	Import    *ImportHandler
	Health    *HealthHandler
	Backup    *BackupHandler
}

// Register adds every route to mux using method patterns
func (rt *Router) Register(mux *http.ServeMux) {
	if rt.Health != nil {
		mux.HandleFunc("GET /health", rt.Health.Health)
		mux.HandleFunc("GET /ready", rt.Health.Readiness)
	}

	mux.HandleFunc("GET "+apiV1+"/items", rt.Inventory.ListItems)
	mux.HandleFunc("POST "+apiV1+"/items", rt.Inventory.CreateItem)
	mux.HandleFunc("GET "+apiV1+"/items/{id}", rt.Inventory.GetItem)
	mux.HandleFunc("DELETE "+apiV1+"/items/{id}", rt.Inventory.DeleteItem)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/purchase", rt.Inventory.PurchaseItem)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/restock", rt.Inventory.RestockItem)
	mux.HandleFunc("GET "+apiV1+"/categories", rt.Inventory.ListCategories)

	mux.HandleFunc("GET "+apiV1+"/export/json", rt.Export.ExportJSON)
	mux.HandleFunc("GET "+apiV1+"/export/excel", rt.Export.ExportExcel)

	if rt.Import != nil {
		mux.HandleFunc("POST "+apiV1+"/import/excel", rt.Import.ImportExcel)
	}

	if rt.Backup != nil {
		mux.HandleFunc("POST "+apiV1+"/backups", rt.Backup.RequestBackup)
	}
}
