package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTroeung1/MSM-inventory-system/internal/handlers"
	"github.com/CTroeung1/MSM-inventory-system/internal/middleware"
)

// CORSMiddleware tells the browser the configured frontend origin may send
// credentialed requests, and answers preflight OPTIONS requests.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must run before anything else.
	router.Use(CORSMiddleware(h.Cfg.Server.CORSOrigin))

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware([]byte(h.Cfg.Auth.JWTSecret)))
		{
			auth.GET("/profile/me", h.GetMe)

			// --- User Routes ---
			auth.GET("/users", h.GetUsers)
			auth.PATCH("/users/:id", h.UpdateUser)
			auth.DELETE("/users/:id", h.DeleteUser)

			// --- Group Routes ---
			auth.POST("/groups", h.CreateGroup)
			auth.GET("/groups", h.GetGroups)
			auth.PATCH("/groups/:id", h.UpdateGroup)
			auth.DELETE("/groups/:id", h.DeleteGroup)

			// --- Location Routes ---
			auth.POST("/locations", h.CreateLocation)
			auth.GET("/locations", h.GetLocations)
			auth.GET("/locations/:id/path", h.GetLocationPath)
			auth.PATCH("/locations/:id", h.UpdateLocation)
			auth.DELETE("/locations/:id", h.DeleteLocation)

			// --- Tag Routes ---
			auth.POST("/tags", h.CreateTag)
			auth.GET("/tags", h.GetTags)
			auth.PATCH("/tags/:id", h.UpdateTag)
			auth.DELETE("/tags/:id", h.DeleteTag)

			// --- Tag Group Routes ---
			auth.POST("/tag-groups", h.CreateTagGroup)
			auth.GET("/tag-groups", h.GetTagGroups)
			auth.GET("/tag-groups/:id/descendants", h.GetTagGroupDescendants)
			auth.PATCH("/tag-groups/:id", h.UpdateTagGroup)
			auth.DELETE("/tag-groups/:id", h.DeleteTagGroup)

			// --- Item Routes ---
			auth.POST("/items", h.CreateItem)
			auth.GET("/items", h.GetItems)
			auth.GET("/items/:id", h.GetItem)
			auth.GET("/items/:id/records", h.GetItemRecords)
			auth.PATCH("/items/:id", h.UpdateItem)
			auth.DELETE("/items", h.BulkDeleteItems)

			// --- Consumable Routes ---
			auth.GET("/consumables/:id", h.GetConsumable)
			auth.PATCH("/consumables/:id", h.UpdateConsumable)
			auth.POST("/consumables/restock", h.Restock)

			// --- Cart Workflow Routes ---
			auth.POST("/cart/checkout", h.Checkout)
			auth.POST("/cart/checkin", h.Checkin)

			// --- Dashboard Routes ---
			auth.GET("/dashboard/loan-history", h.GetLoanHistory)
			auth.GET("/dashboard/inventory-by-location", h.GetInventoryByLocation)
			auth.GET("/dashboard/top-loaned", h.GetTopLoanedItems)
			auth.GET("/dashboard/status", h.GetItemStatusStats)
			auth.GET("/dashboard/top-tags", h.GetTopTags)

			// --- QR Routes ---
			auth.GET("/qr/:id/url", h.GetQRURL)
			auth.GET("/qr/:id/image", h.GetQRImage)
			auth.POST("/qr/scan", h.ScanQR)
			auth.POST("/qr/translate", h.TranslateQRPath)

			// --- Print Routes ---
			auth.GET("/printers", h.GetPrinters)
			auth.POST("/printers", h.CreatePrinter)
			auth.GET("/print/jobs", h.ListMyPrintJobs)
			auth.POST("/print/upload-and-print", h.UploadAndPrint)

			// --- AI Chat Route ---
			auth.POST("/chat", h.ChatAI)
		}
	}

	return router
}
