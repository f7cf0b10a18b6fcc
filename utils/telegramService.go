package utils

import (
	"fmt"
	"log"

	"learnify/config"

	"github.com/go-resty/resty/v2"
)

// NotifyQuizCompletion pushes a quiz result to the Telegram bot gateway
// so the bot can message the user. Fire-and-forget from the caller's
// point of view.
func NotifyQuizCompletion(userID uint, quizTitle string, score int, passed bool) error {
	if config.AppConfig.BotGatewayURL == "" {
		return nil
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("X-Api-Key", config.AppConfig.BotGatewayKey).
		SetBody(map[string]interface{}{
			"user_id":    userID,
			"event":      "quiz_completed",
			"quiz_title": quizTitle,
			"score":      score,
			"passed":     passed,
		}).
		Post(config.AppConfig.BotGatewayURL + "/notify")
	if err != nil {
		log.Printf("Failed to reach bot gateway: %v", err)
		return err
	}
	if resp.StatusCode() != 200 {
		log.Printf("Bot gateway rejected notification: %s", resp.String())
		return fmt.Errorf("bot gateway returned %d", resp.StatusCode())
	}
	return nil
}
