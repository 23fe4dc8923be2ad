// Package content holds the reply material: congratulation templates, gift
// ideas and the postcard images directory. Lookups are pure picks with no
// side effects beyond re-reading the images directory.
package content

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var congratulations = []string{
	"🎉 %s, с днём рождения! Желаю счастья, здоровья и исполнения всех желаний!",
	"🎂 Поздравляю тебя, %s! Пусть этот год будет самым лучшим!",
	"🎈 %s, с праздником! Желаю улыбок, радости и море позитива!",
	"🎁 С днём рождения, %s! Пусть сбудутся все мечты!",
	"🌟 %s, поздравляю! Желаю вдохновения и незабываемых моментов!",
}

var giftIdeas = []string{
	"Идея подарка: Книга по интересам",
	"Идея подарка: Сертификат в SPA или массаж",
	"Идея подарка: Настольная игра для компании",
	"Идея подарка: Беспроводные наушники",
	"Идея подарка: Абонемент в спортзал",
	"Идея подарка: Набор для хобби (рисование, вязание)",
	"Идея подарка: Умная колонка или гаджет",
	"Идея подарка: Поход в ресторан или квест-комнату",
	"Идея подарка: Фотосессия с профессионалом",
	"Идея подарка: Подписка на онлайн-курс",
}

type Library struct {
	imagesDir string

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLibrary(imagesDir string, seed int64) *Library {
	return &Library{
		imagesDir: imagesDir,
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

func (l *Library) Congratulation(name string) string {
	tpl := congratulations[l.pick(len(congratulations))]
	return strings.Replace(tpl, "%s", name, 1)
}

func (l *Library) GiftIdea() string {
	return giftIdeas[l.pick(len(giftIdeas))]
}

// RandomImage re-lists the directory on each call, so images dropped in at
// runtime are picked up without a restart. ok is false when there is nothing
// to send.
func (l *Library) RandomImage() (path string, ok bool) {
	entries, err := os.ReadDir(l.imagesDir)
	if err != nil {
		return "", false
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", false
	}
	return filepath.Join(l.imagesDir, files[l.pick(len(files))]), true
}

func (l *Library) pick(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}
