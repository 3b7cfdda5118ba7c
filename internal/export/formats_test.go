package export

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	var registry *Registry

	BeforeEach(func() {
		registry = DefaultRegistry()
	})

	DescribeTable("default formats",
		func(id, label, mimeType, ext string, isImage bool) {
			f, ok := registry.Lookup(id)
			Expect(ok).To(BeTrue())
			Expect(f.Label).To(Equal(label))
			Expect(f.MIMEType).To(Equal(mimeType))
			Expect(f.Extension).To(Equal(ext))
			Expect(f.IsImage()).To(Equal(isImage))
		},
		Entry("pdf", "pdf", "PDF", "application/pdf", "pdf", false),
		Entry("jpeg", "jpeg", "JPEG", "image/jpeg", "jpg", true),
		Entry("png", "png", "PNG", "image/png", "png", true),
		Entry("docx", "docx", "Word (DOCX)", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx", false),
		Entry("txt", "txt", "Plain Text (TXT)", "text/plain", "txt", false),
		Entry("html", "html", "HTML", "text/html", "html", false),
	)

	It("should list the formats in order", func() {
		var ids []string
		for _, f := range registry.Formats() {
			ids = append(ids, f.ID)
		}
		Expect(ids).To(Equal([]string{"pdf", "jpeg", "png", "docx", "txt", "html"}))
	})

	It("should not be changed through Formats", func() {
		formats := registry.Formats()
		formats[0].ID = "changed"
		_, ok := registry.Lookup("pdf")
		Expect(ok).To(BeTrue())
		Expect(registry.Formats()[0].ID).To(Equal("pdf"))
	})

	It("should reject unknown formats", func() {
		_, ok := registry.Lookup("webp")
		Expect(ok).To(BeFalse())
	})

	It("should find formats by MIME type", func() {
		f, ok := registry.ByMIME("image/jpeg")
		Expect(ok).To(BeTrue())
		Expect(f.ID).To(Equal("jpeg"))
	})

	It("should keep the first of duplicate IDs", func() {
		r := NewRegistry(Format{ID: "a", Label: "first"}, Format{ID: "a", Label: "second"})
		f, _ := r.Lookup("a")
		Expect(f.Label).To(Equal("first"))
		Expect(r.Formats()).To(HaveLen(1))
	})
})
