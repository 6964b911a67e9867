package feed

import (
	"time"

	"elele/pkg/logger"
	"elele/pkg/models"
)

// demoMessages returns the fixture ads shown on a fresh demo install. None
// of them are owned, so the delete action stays hidden for all of them.
func demoMessages(now time.Time) []models.SolidarityMessage {
	ms := now.UnixMilli()
	return []models.SolidarityMessage{
		{
			ID:        "demo-1",
			FullName:  "Ahmet Yılmaz",
			Phone:     "05321112233",
			Email:     "ahmet@firin.com",
			Message:   "Akşam 8'den sonra fırındaki simitler öğrenciler için ücretsizdir. Lütfen kimliğinizle geliniz.",
			Role:      models.RoleShopkeeper,
			District:  "Fatih",
			CreatedAt: ms - time.Hour.Milliseconds(),
		},
		{
			ID:        "demo-2",
			FullName:  "Ayşe Kaya",
			Phone:     "05442223344",
			Email:     "ayse@veli.com",
			Message:   "Beşiktaş - Levent arası okul servisimiz bozuldu. Aynı yöne giden, aracında yer olan veli var mı?",
			Role:      models.RoleParent,
			District:  "Beşiktaş",
			CreatedAt: ms - 2*time.Hour.Milliseconds(),
		},
		{
			ID:        "demo-3",
			FullName:  "Can Mert",
			Phone:     "05553334455",
			Email:     "can@edu.tr",
			Message:   "YKS kitaplarımı yeni mezun olduğum için ihtiyacı olan bir alt sınıfa hediye etmek istiyorum.",
			Role:      models.RoleStudent,
			District:  "Kadıköy",
			CreatedAt: ms - 3*time.Hour.Milliseconds(),
		},
	}
}

// SeedDemoIfEmpty installs the fixture ads when the feed is empty. The
// default policy is a genuinely empty feed; this only runs when the operator
// opts in via feed.seed_demo.
func (s *Store) SeedDemoIfEmpty() {
	s.mu.Lock()
	if len(s.messages) > 0 {
		s.mu.Unlock()
		return
	}
	s.messages = demoMessages(time.Now())
	s.persistLocked()
	s.mu.Unlock()

	logger.Info("feed_seeded_demo", "messages", 3)
}
