package document

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/docscan/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newDoc := func(id string, created time.Time) *SavedDocument {
		data := extraction.NewData()
		data.Set("vendorName", "Acme")
		data.Set("items", []any{map[string]any{"name": "Pen"}})
		data.Set("total", 3.0)
		return &SavedDocument{
			ID:          id,
			Name:        id + ".png",
			URI:         id + ".png",
			OriginalURI: id + ".heic",
			Extraction: &extraction.Result{
				DocumentType:   extraction.Receipt,
				Languages:      []string{"en"},
				StructuredData: data,
			},
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	Describe("SaveDocument and GetDocument", func() {
		When("the document exists", func() {
			BeforeEach(func() {
				Expect(db.SaveDocument(newDoc("doc-1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			})

			It("should round trip the record", func() {
				doc, err := db.GetDocument("doc-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(doc.Name).To(Equal("doc-1.png"))
				Expect(doc.OriginalURI).To(Equal("doc-1.heic"))
				Expect(doc.Extraction.DocumentType).To(Equal(extraction.Receipt))
			})

			It("should keep the structured data order", func() {
				doc, err := db.GetDocument("doc-1")
				Expect(err).NotTo(HaveOccurred())
				var keys []string
				for pair := doc.Extraction.StructuredData.Oldest(); pair != nil; pair = pair.Next() {
					keys = append(keys, pair.Key)
				}
				Expect(keys).To(Equal([]string{"vendorName", "items", "total"}))
			})

			It("should let the last write win", func() {
				updated := newDoc("doc-1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
				updated.Name = "renamed.png"
				Expect(db.SaveDocument(updated)).To(Succeed())

				doc, err := db.GetDocument("doc-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(doc.Name).To(Equal("renamed.png"))
			})
		})

		When("the document does not exist", func() {
			It("should return ErrNotFound", func() {
				_, err := db.GetDocument("nonexistent")
				Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
				Expect(err).To(MatchError("document not found: nonexistent"))
			})
		})

		When("the document has no ID", func() {
			It("should return an error", func() {
				Expect(db.SaveDocument(&SavedDocument{})).To(MatchError("document id is required"))
			})
		})

		When("the extraction is missing", func() {
			It("should store a null extraction", func() {
				Expect(db.SaveDocument(&SavedDocument{ID: "bare"})).To(Succeed())
				doc, err := db.GetDocument("bare")
				Expect(err).NotTo(HaveOccurred())
				Expect(doc.Extraction).To(BeNil())
			})
		})
	})

	Describe("ListDocuments", func() {
		When("the database is empty", func() {
			It("should return an empty list", func() {
				docs, err := db.ListDocuments()
				Expect(err).NotTo(HaveOccurred())
				Expect(docs).To(BeEmpty())
			})
		})

		When("there are several documents", func() {
			BeforeEach(func() {
				base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
				Expect(db.SaveDocument(newDoc("a", base))).To(Succeed())
				Expect(db.SaveDocument(newDoc("b", base.Add(2*time.Hour)))).To(Succeed())
				Expect(db.SaveDocument(newDoc("c", base.Add(time.Hour)))).To(Succeed())
			})

			It("should return them newest first", func() {
				docs, err := db.ListDocuments()
				Expect(err).NotTo(HaveOccurred())
				ids := make([]string, len(docs))
				for i, d := range docs {
					ids[i] = d.ID
				}
				Expect(ids).To(Equal([]string{"b", "c", "a"}))
			})
		})
	})

	Describe("DeleteDocument", func() {
		BeforeEach(func() {
			Expect(db.SaveDocument(newDoc("doc-1", time.Now()))).To(Succeed())
		})

		It("should remove the document", func() {
			Expect(db.DeleteDocument("doc-1")).To(Succeed())
			_, err := db.GetDocument("doc-1")
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		})

		It("should not fail for a missing document", func() {
			Expect(db.DeleteDocument("nonexistent")).To(Succeed())
		})
	})

	Describe("persistence", func() {
		It("should keep documents across reopen", func() {
			Expect(db.SaveDocument(newDoc("doc-1", time.Now()))).To(Succeed())
			Expect(db.Close()).To(Succeed())

			reopened, err := NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			db = reopened

			doc, err := db.GetDocument("doc-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ID).To(Equal("doc-1"))
		})
	})
})
