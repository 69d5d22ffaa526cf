package backup

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Schedule starts a cron job dumping the database into dir on the given
// spec (e.g. "0 3 * * *"). The returned cron is already running.
func Schedule(spec string, db *gorm.DB, dir string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		f, err := Dump(db, dir)
		if err != nil {
			log.Printf("scheduled backup failed: %v", err)
			return
		}
		log.Printf("scheduled backup written: %s (%d bytes)", f.Name, f.Size)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule backup: %w", err)
	}
	c.Start()
	return c, nil
}
