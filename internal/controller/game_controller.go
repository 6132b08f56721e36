package controller

import (
	"errors"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rheo5/Chess/internal/ai"
	"github.com/rheo5/Chess/internal/model"
	"github.com/rheo5/Chess/internal/service"
)

// maxSearchDepth caps the minimax depth a client may request; a synchronous
// move reply has to come back in reasonable time.
const maxSearchDepth = 4

// matchWaitTimeout bounds the matchmaking long-poll. Clients poll again on
// 204.
const matchWaitTimeout = 25 * time.Second

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Opponent string `json:"opponent"`
	Depth    int    `json:"depth"`
	Color    string `json:"color"`
}

// CreateGame opens a new game. The optional body picks a computer opponent
// ("opponent" names a difficulty, "depth" tunes minimax) and the creator's
// color; without a body the game waits for a second human.
func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed request body",
			})
		}
	}
	if req.Opponent != "" && !slices.Contains(ai.Levels(), req.Opponent) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown difficulty level",
		})
	}
	humanColor := model.White
	switch req.Color {
	case "", string(model.White):
	case string(model.Black):
		humanColor = model.Black
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "color must be white or black",
		})
	}
	depth := req.Depth
	if depth > maxSearchDepth {
		depth = maxSearchDepth
	}

	gameID, err := gc.gameService.CreateGame(service.CreateGameOptions{
		Opponent:   req.Opponent,
		Depth:      depth,
		HumanColor: humanColor,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	view, err := gc.gameService.GetGameView(gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch game state",
		})
	}

	return c.JSON(view)
}

// GetLegalMoves lists every legal move for the side to move, for clients
// that highlight destinations.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	moves, err := gc.gameService.GetLegalMoves(gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch legal moves",
		})
	}
	if moves == nil {
		moves = []model.Move{}
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

// GetLevels lists the computer difficulty names a game can be created with.
func (gc *GameController) GetLevels(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"levels": ai.Levels(),
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// WaitForMatch long-polls for the caller's matchmaking result. It answers
// with the MatchFoundEvent once paired, or 204 after the timeout so the
// client can poll again.
func (gc *GameController) WaitForMatch(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	ch := make(chan model.MatchFoundEvent, 1)
	gc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer gc.gameService.UnregisterMatchmakingChannel(playerID)

	select {
	case event, ok := <-ch:
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(event)
	case <-time.After(matchWaitTimeout):
		return c.SendStatus(fiber.StatusNoContent)
	}
}
