package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    log "github.com/sirupsen/logrus"
)

// Publisher sends domain events to RabbitMQ.  It dials a fresh connection
// per event; checkouts are rare enough that pooling is not worth the
// reconnect handling.
type Publisher struct {
    url    string
    logger *log.Logger
}

func NewPublisher(url string, logger *log.Logger) *Publisher {
    return &Publisher{url: url, logger: logger}
}

// PublishOrderCheckedOut publishes ev to the order.checked_out queue.  Errors
// are logged and returned so the caller can choose to ignore them.  Messages
// are marked as persistent.
func (p *Publisher) PublishOrderCheckedOut(ctx context.Context, ev OrderCheckedOutEvent) error {
    l := p.logger.WithField("order_id", ev.OrderID)

    conn, err := amqp.Dial(p.url)
    if err != nil {
        l.WithError(err).Warn("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        l.WithError(err).Warn("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        OrderCheckedOutQueue, // name
        true,                 // durable
        false,                // autoDelete
        false,                // exclusive
        false,                // noWait
        nil,                  // args
    ); err != nil {
        l.WithError(err).Warn("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",                   // default exchange
        OrderCheckedOutQueue, // routing key = queue name
        false,                // mandatory
        false,                // immediate
        pub,
    ); err != nil {
        l.WithError(err).Warn("rabbitmq: publish failed")
        return err
    }
    return nil
}
