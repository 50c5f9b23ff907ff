package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/go-feed-service/config"
)

// event_worker drains the change-event queue into the post_events audit
// table. The API publishes every create/update/delete here in addition to
// fanning it out to live subscribers.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var evt struct {
				Action string          `json:"action"`
				Post   json.RawMessage `json:"post"`
			}
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if evt.Action == "" {
				log.Printf("message without action, dropping")
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 10*time.Second)
			_, err := db.ExecContext(c, `
				INSERT INTO post_events (action, payload)
				VALUES ($1, $2)
			`, evt.Action, []byte(evt.Post))
			cancel()
			if err != nil {
				log.Printf("archive failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("event worker listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
