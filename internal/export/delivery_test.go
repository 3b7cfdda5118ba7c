package export

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FileDelivery", func() {
	var (
		dir      string
		shared   []string
		shareErr error
		delivery *FileDelivery
		artifact *Artifact
		result   *DeliveryResult
		err      error
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "out")
		shared = nil
		shareErr = nil
		delivery = NewFileDelivery(dir, SharerFunc(func(ctx context.Context, path, mimeType string) error {
			shared = append(shared, path+"|"+mimeType)
			return shareErr
		}))
		artifact = &Artifact{Data: []byte("hello"), MIMEType: "text/plain", Filename: "note.txt"}
	})

	JustBeforeEach(func() {
		result, err = delivery.Deliver(context.Background(), artifact)
	})

	It("should write the file into a fresh directory", func() {
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Dir(filepath.Dir(result.Location))).To(Equal(dir))
		Expect(filepath.Base(result.Location)).To(Equal("note.txt"))
		Expect(os.ReadFile(result.Location)).To(Equal([]byte("hello")))
		Expect(result.Bytes).To(Equal(5))
	})

	It("should share the written file", func() {
		Expect(shared).To(Equal([]string{result.Location + "|text/plain"}))
	})

	It("should never overwrite an earlier export", func() {
		second, secondErr := delivery.Deliver(context.Background(), artifact)
		Expect(secondErr).NotTo(HaveOccurred())
		Expect(second.Location).NotTo(Equal(result.Location))
	})

	When("sharing fails", func() {
		BeforeEach(func() {
			shareErr = errors.New("share sheet unavailable")
		})

		It("should return the error", func() {
			Expect(err).To(MatchError(ContainSubstring("share sheet unavailable")))
		})
	})

	When("there is no sharer", func() {
		BeforeEach(func() {
			delivery = NewFileDelivery(dir, nil)
		})

		It("should only write the file", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Location).To(BeAnExistingFile())
			Expect(shared).To(BeEmpty())
		})
	})
})

var _ = Describe("DownloadDelivery", func() {
	var recorder *httptest.ResponseRecorder

	BeforeEach(func() {
		recorder = httptest.NewRecorder()
	})

	It("should send the artifact as an attachment", func() {
		res, err := NewDownloadDelivery(recorder).Deliver(context.Background(), &Artifact{
			Data:     []byte("<p>hi</p>"),
			MIMEType: "text/html",
			Filename: "my scan.html",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Bytes).To(Equal(9))
		Expect(recorder.Code).To(Equal(http.StatusOK))
		Expect(recorder.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
		Expect(recorder.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="my scan.html"`))
		Expect(recorder.Body.String()).To(Equal("<p>hi</p>"))
	})

	It("should leave binary types without a charset", func() {
		_, err := NewDownloadDelivery(recorder).Deliver(context.Background(), &Artifact{
			Data:     []byte("%PDF-1.3"),
			MIMEType: "application/pdf",
			Filename: "doc.pdf",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(recorder.Header().Get("Content-Type")).To(Equal("application/pdf"))
	})
})
