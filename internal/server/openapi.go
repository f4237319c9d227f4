package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Millionaire API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the ladder quiz game: fifteen questions, one shot at the top prize.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/signup
	postSignup, _ := r.NewOperationContext(http.MethodPost, "/api/signup")
	postSignup.SetSummary("Sign up")
	postSignup.SetDescription("Register with email and password. Returns a session token.")
	postSignup.AddReqStructure(SignupRequest{})
	postSignup.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSignup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSignup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSignup)

	// POST /api/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with email and password. Returns a session token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the authenticated user's profile and balance. Requires Bearer token.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// POST /api/games
	postGames, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGames.SetSummary("Start a game")
	postGames.SetDescription("Starts a new game of fifteen questions. Refused while an unfinished game exists; the response then carries the existing game's id.")
	postGames.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGames)

	// GET /api/games/current
	getCurrent, _ := r.NewOperationContext(http.MethodGet, "/api/games/current")
	getCurrent.SetSummary("Current game")
	getCurrent.SetDescription("Returns the caller's unfinished game, expiring it first if the clock ran out. Requires Bearer token.")
	getCurrent.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getCurrent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	getCurrent.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getCurrent)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns one of the caller's games, finished or not. Requires Bearer token.")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/games/{gameID}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/answer")
	postAnswer.SetSummary("Answer the current question")
	postAnswer.SetDescription("Submits an answer key for the current level. A finished game is rejected with 409.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postAnswer)

	// POST /api/games/{gameID}/take-money
	postTakeMoney, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/take-money")
	postTakeMoney.SetSummary("Cash out")
	postTakeMoney.SetDescription("Ends the game voluntarily, banking the prize for the last cleared level and crediting the balance.")
	postTakeMoney.AddRespStructure(TakeMoneyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTakeMoney.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postTakeMoney.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postTakeMoney)

	// GET /api/games/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for the caller's current game. Pass the session token as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
