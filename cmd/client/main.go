package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"

	"github.com/Iggy502/booking-web-sub000/internal/booking"
	apiclient "github.com/Iggy502/booking-web-sub000/internal/client"
	"github.com/Iggy502/booking-web-sub000/internal/channel"
	"github.com/Iggy502/booking-web-sub000/internal/chat"
	"github.com/Iggy502/booking-web-sub000/internal/config"
	"github.com/Iggy502/booking-web-sub000/pkg/token"
)

func main() {
	ctx := context.TODO()

	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	api, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeouts(cfg.API.DialTimeout, cfg.API.ReadTimeout, cfg.API.WriteTimeout))
	if err != nil {
		log.CtxError(ctx, "failed to create api client: %v", err)
		panic(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cache := token.NewCache(rdb, time.Duration(cfg.Redis.TokenExpire)*time.Hour)

	email := os.Getenv("BOOKING_EMAIL")
	password := os.Getenv("BOOKING_PASSWORD")

	bearer, userId := resume(ctx, cache, os.Getenv("BOOKING_USER_ID"))
	if bearer == "" {
		login, err := api.Login(ctx, email, password)
		if err != nil {
			log.CtxError(ctx, "login failed: %v", err)
			panic(err)
		}
		bearer = login.Token
		userId = login.User.Id
		if err := cache.Store(ctx, userId, bearer); err != nil {
			log.CtxWarn(ctx, "credential cache unavailable: %v", err)
		}
	}
	api.SetToken(bearer)

	log.CtxInfo(ctx, "logged in: user_id=%s", userId)

	session := chat.NewSession(channel.Options{
		URL:            cfg.Chat.URL,
		WriteWait:      cfg.Chat.WriteWait,
		PongWait:       cfg.Chat.PongWait,
		PingPeriod:     cfg.Chat.PingPeriod,
		MaxMessageSize: cfg.Chat.MaxMessageSize,
		AckTimeout:     cfg.Chat.AckTimeout,
	}, func(connected bool) {
		log.CtxInfo(ctx, "channel connected=%v", connected)
	})

	state := chat.NewState(userId, session, cfg.Chat.TypingSafetyTTL)
	sender := chat.NewSender(state, session, userId, cfg.Chat.TypingDebounce)

	state.SetOnChange(func() {
		typing := ""
		if state.PeerTyping() {
			typing = " (typing...)"
		}
		fmt.Printf("\r[unread: %d]%s ", state.TotalUnread(), typing)
	})

	creds := channel.Credentials{Token: bearer, UserId: userId}
	if err := session.Connect(ctx, creds, state.Apply); err != nil {
		log.CtxError(ctx, "channel connect failed: %v", err)
		panic(err)
	}

	flow := booking.NewFlow(api, api, api, session)

	go repl(ctx, state, sender, flow, userId)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down...")
	session.Disconnect()
}

// resume loads a cached credential and verifies it has not expired
func resume(ctx context.Context, cache *token.Cache, userId string) (string, string) {
	if userId == "" {
		return "", ""
	}
	bearer, err := cache.Load(ctx, userId)
	if err != nil || bearer == "" {
		return "", ""
	}
	claims, err := token.Validate(bearer, time.Now())
	if err != nil {
		return "", ""
	}
	return bearer, claims.SubjectId()
}

// repl reads commands from stdin: "open <conversationId>", "close",
// "list", "book <propertyId> <checkIn> <checkOut> <guests>", or a plain
// line sent as a message to the open conversation.
func repl(ctx context.Context, state *chat.State, sender *chat.Sender, flow *booking.Flow, userId string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "book "):
			book(ctx, flow, userId, strings.Fields(line)[1:])
		case strings.HasPrefix(line, "open "):
			convId := strings.TrimSpace(strings.TrimPrefix(line, "open "))
			if err := state.OpenConversation(convId); err != nil {
				fmt.Printf("open failed: %v\n", err)
			}
		case line == "close":
			state.CloseConversation()
		case line == "list":
			for _, c := range state.Chats() {
				fmt.Printf("%s  %s (%d unread)\n",
					c.Conversation.Id, c.Property.Name, state.UnreadCount(c.Conversation.Id))
			}
		default:
			convId := state.OpenConversationId()
			if convId == "" {
				fmt.Println("no open conversation; use: open <conversationId>")
				continue
			}
			sender.NoteTyping(convId)
			if err := sender.Send(ctx, line, convId); err != nil {
				fmt.Printf("send failed: %v (draft kept: %q)\n", err, sender.Draft())
			}
		}
	}
}

// book parses "book <propertyId> <checkIn> <checkOut> <guests>" with
// dates as 2006-01-02 and runs the confirmation flow
func book(ctx context.Context, flow *booking.Flow, userId string, args []string) {
	if len(args) != 4 {
		fmt.Println("usage: book <propertyId> <checkIn> <checkOut> <guests>")
		return
	}
	checkIn, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		fmt.Printf("bad check-in date: %v\n", err)
		return
	}
	checkOut, err := time.Parse("2006-01-02", args[2])
	if err != nil {
		fmt.Printf("bad check-out date: %v\n", err)
		return
	}
	guests, err := strconv.Atoi(args[3])
	if err != nil {
		fmt.Printf("bad guest count: %v\n", err)
		return
	}

	created, err := flow.Confirm(ctx, booking.ConfirmRequest{
		PropertyId: args[0],
		GuestId:    userId,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		NumGuests:  guests,
	})
	if err != nil {
		fmt.Printf("booking failed: %v\n", err)
		return
	}
	fmt.Printf("booked %s: %s, total %.2f\n", created.Id, created.Status, created.TotalPrice)
}
