package store_test

import (
	"context"
	"path/filepath"

	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("sql job store", func() {
	newSqlite := func() (*store.SqlStore, *gorm.DB) {
		cfg := config.NewDefault()
		cfg.Store.Type = config.SqliteStore
		cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "jobs.db")

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s := store.NewSqlStore(db)
		Expect(s.InitialMigration(context.TODO())).To(Succeed())
		DeferCleanup(s.Close)
		return s, db
	}

	Context("contract", func() {
		describeJobStore(func() store.Job {
			s, _ := newSqlite()
			return s.Job()
		})
	})

	It("stores the owner next to each job", func() {
		s, db := newSqlite()
		created, err := s.Job().Create(context.TODO(), "u1", acmeForm())
		Expect(err).To(BeNil())

		var owner string
		tx := db.Raw("SELECT user_id FROM jobs WHERE id = ?", created.ID).Scan(&owner)
		Expect(tx.Error).To(BeNil())
		Expect(owner).To(Equal("u1"))
	})

	It("migrates repeatedly", func() {
		s, _ := newSqlite()
		Expect(s.InitialMigration(context.TODO())).To(Succeed())
	})
})
