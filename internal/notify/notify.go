// Package notify реализует живую ленту изменений записи подписки поверх redis pub/sub.
//
// Каждая зафиксированная запись публикуется в канал конкретного пользователя;
// Watch отдаёт поток изменений для одного uid и функцию остановки. На один
// вошедший идентификатор держится ровно одна подписка — смена пользователя
// обязана сначала остановить предыдущую, иначе чужие данные утекут в чужую сессию.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dijital-miras/premium-service/internal/models"
)

// Feed публикует и раздаёт изменения записей подписки.
type Feed struct {
	client *redis.Client
}

// NewFeed создает ленту поверх готового redis-клиента.
func NewFeed(client *redis.Client) *Feed {
	return &Feed{client: client}
}

func channelFor(userUID string) string {
	return "subscriptions:" + userUID
}

// Publish рассылает зафиксированную запись всем наблюдателям пользователя.
func (f *Feed) Publish(ctx context.Context, rec *models.Record) error {
	const op = "notify.Publish"
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.client.Publish(ctx, channelFor(rec.UserUID), payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Watch подписывается на изменения записи пользователя. Возвращает канал записей
// и функцию остановки; остановка закрывает канал. Сообщения, которые не удалось
// распарсить, пропускаются: лента не должна ронять наблюдателя.
func (f *Feed) Watch(ctx context.Context, userUID string) (<-chan *models.Record, func(), error) {
	const op = "notify.Watch"

	sub := f.client.Subscribe(ctx, channelFor(userUID))
	// Дожидаемся подтверждения подписки, чтобы не потерять первое изменение.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan *models.Record)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var rec models.Record
				if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
					continue
				}
				select {
				case out <- &rec:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, stop, nil
}
