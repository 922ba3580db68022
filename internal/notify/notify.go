package notify

import (
	"context"

	"github.com/lexfield/practice-core/internal/log"
)

// Notifier — канал доставки уведомлений. Реальный транспорт (email/SMS)
// живёт во внешнем сервисе; ядро знает только контракт
// (адрес, тема, тело) → успех/ошибка на сообщение.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogNotifier пишет уведомления в лог вместо реальной отправки.
// Используется в разработке и как заглушка, пока транспорт не подключён.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, recipient, subject, body string) error {
	log.Info("notification", "to", recipient, "subject", subject, "body", body)
	return nil
}
