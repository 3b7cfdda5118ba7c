package document

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("should write the file and return its reference", func() {
			ref, err := storage.Save("test.jpg", []byte("test file content"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ref).To(Equal("test.jpg"))
			Expect(filepath.Join(tmpDir, "test.jpg")).To(BeAnExistingFile())
		})

		It("should keep references inside the base directory", func() {
			_, err := storage.Save("../escape.jpg", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(tmpDir, "escape.jpg")).To(BeAnExistingFile())
			Expect(filepath.Join(filepath.Dir(tmpDir), "escape.jpg")).NotTo(BeAnExistingFile())
		})

		It("should reject an empty reference", func() {
			_, err := storage.Save("", []byte("x"))
			Expect(err).To(MatchError(ContainSubstring("invalid file reference")))
		})
	})

	Describe("Get", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("test.jpg", []byte("test file content"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the file data", func() {
				data, err := storage.Get("test.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("test file content"))
			})
		})

		When("the file does not exist", func() {
			It("should return an error", func() {
				_, err := storage.Get("nonexistent.jpg")
				Expect(err).To(MatchError(ContainSubstring("reading file")))
			})
		})
	})

	Describe("Delete", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("test.jpg", []byte("x"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the file", func() {
				Expect(storage.Delete("test.jpg")).To(Succeed())
				Expect(filepath.Join(tmpDir, "test.jpg")).NotTo(BeAnExistingFile())
			})
		})

		When("the file does not exist", func() {
			It("should return an error", func() {
				Expect(storage.Delete("nonexistent.jpg")).To(MatchError(ContainSubstring("deleting file")))
			})
		})
	})
})

var _ = Describe("NewMinIOStorage", func() {
	It("should require an endpoint and bucket", func() {
		_, err := NewMinIOStorage(MinIOConfig{Bucket: "docs"})
		Expect(err).To(MatchError("minio endpoint and bucket are required"))
	})
})
