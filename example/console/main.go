package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tripdesk/flightbot/assistant"
	"github.com/tripdesk/flightbot/booking"
	"github.com/tripdesk/flightbot/dialog"
	"github.com/tripdesk/flightbot/nlu"
	"github.com/tripdesk/flightbot/prompt"
	"github.com/tripdesk/flightbot/store"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startApp(context.Background(), config); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *Config) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	recognizer, err := buildRecognizer(ctx, config)
	if err != nil {
		return err
	}

	engine := prompt.NewEngine(recognizer, nil)
	runner := dialog.NewRunner(engine, dialog.SlogObserver{},
		booking.NewMainDialog(recognizer),
		booking.NewBookingDialog(),
		booking.NewDateResolverDialog(dialog.IDStartDate, nil),
		booking.NewDateResolverDialog(dialog.IDEndDate, nil),
	)
	bot := assistant.New(runner, buildSessions(config), slog.Default())

	conversation := uuid.NewString()
	reader := bufio.NewReader(os.Stdin)

	// Opening turn: no active dialog yet, so this greets.
	if err := respond(ctx, bot, conversation, ""); err != nil {
		return err
	}
	for {
		fmt.Print("you: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("bye.")
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if err := respond(ctx, bot, conversation, input); err != nil {
			return err
		}
	}
}

func respond(ctx context.Context, bot *assistant.Assistant, conversation, input string) error {
	replies, _, err := bot.Respond(ctx, conversation, input)
	if err != nil {
		return err
	}
	for _, reply := range replies {
		fmt.Printf("bot: %s\n", reply)
	}
	return nil
}

// buildRecognizer wires the chat model recognizer when credentials are
// configured, always with the rule recognizer behind it, so the console works
// offline too.
func buildRecognizer(ctx context.Context, config *Config) (nlu.Recognizer, error) {
	rule := nlu.NewRuleRecognizer(nil)
	if config.APIKey == "" {
		return rule, nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	tool, err := nlu.NewToolRecognizer(cm, nil)
	if err != nil {
		return nil, err
	}
	return nlu.NewFallback(tool, rule), nil
}

func buildSessions(config *Config) store.Store[assistant.Session] {
	var cache store.Cache[assistant.Session]
	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		cache = store.NewRedisCache[assistant.Session](client, 24*time.Hour)
	} else {
		cache = store.NewMemoryCache[assistant.Session](0)
	}
	return store.NewStore(cache, "session")
}
