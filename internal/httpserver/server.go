package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fdg312/mealboard/internal/ai"
	"github.com/fdg312/mealboard/internal/blob"
	"github.com/fdg312/mealboard/internal/calendar"
	"github.com/fdg312/mealboard/internal/config"
	"github.com/fdg312/mealboard/internal/grocery"
	"github.com/fdg312/mealboard/internal/ingredients"
	"github.com/fdg312/mealboard/internal/mealplans"
	"github.com/fdg312/mealboard/internal/meals"
	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
	"github.com/fdg312/mealboard/internal/storage/memory"
	"github.com/fdg312/mealboard/internal/storage/postgres"
	"github.com/fdg312/mealboard/internal/suggestions"
	"go.uber.org/zap"
)

// Server wires storage, services and routes for the mealboard API.
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	mux     *http.ServeMux
	storage storage.Storage
	plans   *mealplans.Service
	httpSrv *http.Server
}

// New creates the server and registers every route.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config: cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	planning.SetMaxRangeDays(cfg.MaxRangeDays)
	s.initStorage()
	s.routes()
	return s
}

// initStorage picks Postgres when a database URL is configured and falls back to memory.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		s.logger.Info("using in-memory storage")
		s.storage = memory.New()
		return
	}

	s.logger.Info("connecting to postgres")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		s.logger.Warn("postgres unavailable, falling back to in-memory storage", zap.Error(err))
		s.storage = memory.New()
		return
	}
	s.logger.Info("postgres connected")
	s.storage = pgStorage
}

func (s *Server) routes() {
	ctx := context.Background()

	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Ingredients API
	ingredientService := ingredients.NewService(s.getIngredientsStorage(), s.logger.Named("ingredients"))
	ingredientHandler := ingredients.NewHandler(ingredientService)

	s.mux.HandleFunc("POST /v1/ingredients/search", ingredientHandler.HandleSearch)
	s.mux.HandleFunc("GET /v1/ingredients/popular", ingredientHandler.HandlePopular)
	s.mux.HandleFunc("POST /v1/ingredients", ingredientHandler.HandleRegister)

	// Meals API
	mealService := meals.NewService(s.getMealsStorage(), ingredientService)
	mealHandler := meals.NewHandler(mealService)

	s.mux.HandleFunc("GET /v1/meals", mealHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meals", mealHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/meals/{id}", mealHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/meals/{id}", mealHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/family-members", mealHandler.HandleFamilyMembers)

	// Meal plans API
	s.plans = mealplans.NewService(s.getMealPlansStorage())
	planHandler := mealplans.NewHandler(s.plans)

	s.mux.HandleFunc("GET /v1/meal-plans", planHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meal-plans", planHandler.HandleUpsertDay)
	s.mux.HandleFunc("GET /v1/meal-plans/{date}", planHandler.HandleGetDay)
	s.mux.HandleFunc("PUT /v1/meal-plans/{date}", planHandler.HandleAssign)
	s.mux.HandleFunc("POST /v1/meal-plans/copy-week", planHandler.HandleCopyWeek)
	s.mux.HandleFunc("POST /v1/meal-plans/copy-month", planHandler.HandleCopyMonth)
	s.mux.HandleFunc("GET /v1/meal-plans/month/{year}/{month}", planHandler.HandleGetMonth)
	s.mux.HandleFunc("GET /v1/meal-plans/weeks-with-plans", planHandler.HandleWeeksWithPlans)
	s.mux.HandleFunc("GET /v1/meal-plans/months-with-plans", planHandler.HandleMonthsWithPlans)

	// Calendar API
	calendarHandler := calendar.NewHandler(calendar.NewService(s.plans, mealService))

	s.mux.HandleFunc("GET /v1/calendar/month/{year}/{month}", calendarHandler.HandleMonth)
	s.mux.HandleFunc("GET /v1/calendar/weeks", calendarHandler.HandleWeeks)
	s.mux.HandleFunc("GET /v1/calendar/day/{date}", calendarHandler.HandleDay)

	// Grocery lists API
	// a nil store means exports are served by the API itself
	exportStore, _, err := blob.NewBlobStore(ctx, s.config.Blob, s.logger)
	if err != nil {
		s.logger.Warn("export storage unavailable, serving exports from the API", zap.Error(err))
		exportStore = nil
	}
	exporter := grocery.NewExporter(grocery.ExportOptions{
		Store:           exportStore,
		PresignTTL:      time.Duration(s.config.Blob.S3.PresignTTLSeconds) * time.Second,
		PreferPublicURL: s.config.Blob.S3.PreferPublicURL,
		MaxItems:        s.config.ExportMaxItems,
		PublicBaseURL:   s.config.PublicBaseURL,
	}, s.logger.Named("export"))
	sharer := grocery.NewSharer(s.config.ShareSecret, s.config.ShareIssuer, time.Duration(s.config.ShareTTLHours)*time.Hour)

	groceryService := grocery.NewService(s.getGroceryListsStorage(), mealService, s.plans, ingredientService, s.logger.Named("grocery"))
	groceryHandler := grocery.NewHandler(groceryService, exporter, sharer, s.config.PublicBaseURL)

	s.mux.HandleFunc("GET /v1/grocery-lists", groceryHandler.HandleList)
	s.mux.HandleFunc("POST /v1/grocery-lists", groceryHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/grocery-lists/{id}", groceryHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/grocery-lists/{id}", groceryHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/grocery-lists/{id}/grouped", groceryHandler.HandleGrouped)
	s.mux.HandleFunc("POST /v1/grocery-lists/{id}/items", groceryHandler.HandleAddItem)
	s.mux.HandleFunc("PUT /v1/grocery-lists/{id}/items/{item_id}", groceryHandler.HandleUpdateItem)
	s.mux.HandleFunc("DELETE /v1/grocery-lists/{id}/items/{item_id}", groceryHandler.HandleRemoveItem)
	s.mux.HandleFunc("GET /v1/grocery-lists/{id}/export", groceryHandler.HandleDownload)
	s.mux.HandleFunc("POST /v1/grocery-lists/{id}/export", groceryHandler.HandleExport)
	s.mux.HandleFunc("POST /v1/grocery-lists/{id}/share", groceryHandler.HandleShare)
	s.mux.HandleFunc("GET /v1/shared/grocery-lists/{token}", groceryHandler.HandleShared)

	// Suggestions API
	provider := ai.NewProvider(ctx, s.config.AI, s.logger.Named("ai"))
	importer := suggestions.NewImporter(time.Duration(s.config.ImportTimeoutSeconds) * time.Second)
	suggestionHandler := suggestions.NewHandler(suggestions.NewService(provider, mealService, importer, s.logger.Named("suggestions")))

	s.mux.HandleFunc("POST /v1/suggestions", suggestionHandler.HandleSuggest)
	s.mux.HandleFunc("POST /v1/suggestions/accept", suggestionHandler.HandleAccept)
	s.mux.HandleFunc("POST /v1/suggestions/import", suggestionHandler.HandleImport)
}

func (s *Server) getMealsStorage() storage.MealsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetMealsStorage()
	case *postgres.PostgresStorage:
		return st.GetMealsStorage()
	default:
		s.logger.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getMealPlansStorage() storage.MealPlansStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetMealPlansStorage()
	case *postgres.PostgresStorage:
		return st.GetMealPlansStorage()
	default:
		s.logger.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getIngredientsStorage() storage.IngredientsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetIngredientsStorage()
	case *postgres.PostgresStorage:
		return st.GetIngredientsStorage()
	default:
		s.logger.Fatal("unknown storage type")
		return nil
	}
}

func (s *Server) getGroceryListsStorage() storage.GroceryListsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetGroceryListsStorage()
	case *postgres.PostgresStorage:
		return st.GetGroceryListsStorage()
	default:
		s.logger.Fatal("unknown storage type")
		return nil
	}
}

// PlanService exposes the meal plan service for background jobs.
func (s *Server) PlanService() *mealplans.Service {
	return s.plans
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := "ok"
	code := http.StatusOK
	if err := s.storage.Ping(r.Context()); err != nil {
		s.logger.Warn("storage ping failed", zap.Error(err))
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
	})
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	// outermost first: CORS -> rate limit -> access log -> router
	var handler http.Handler = s.mux
	handler = AccessLogMiddleware(s.logger.Named("http"), handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server listening",
		zap.String("addr", addr),
		zap.String("healthz", fmt.Sprintf("http://localhost%s/healthz", addr)),
	)

	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Close releases storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
