package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectLink(t *testing.T) {
	assert.Equal(t, "zotero://select/library/items/ABCD1234", SelectLink("ABCD1234"))
}

func TestOpenPDFLink(t *testing.T) {
	m := &ZoteroMetadata{PDFAttachmentKey: "XY12ZT99"}
	assert.Equal(t, "zotero://open-pdf/library/items/XY12ZT99?page=7", m.OpenPDFLink(7))

	noKey := &ZoteroMetadata{}
	assert.Empty(t, noKey.OpenPDFLink(1))

	var nilMeta *ZoteroMetadata
	assert.Empty(t, nilMeta.OpenPDFLink(1))
}
