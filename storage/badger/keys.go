package badger

import (
	"encoding/binary"
	"time"

	"github.com/recallhq/recall/core"
)

// Key prefixes for different data types
const (
	itemRecordPrefix  = "vltitm"
	itemDatePrefix    = "vltitmd"
	itemTagPrefix     = "vlttag"
	itemRecordIDSeq   = "vltitmseq"
	chatMessagePrefix = "vltmsg"
	chatMessageIDSeq  = "vltmsgseq"
)

// appendOwner writes a length-prefixed owner segment. Length prefixing keeps
// owner scopes disjoint even when one owner string is a prefix of another.
func appendOwner(buf []byte, owner string) []byte {
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(owner)))
	return append(buf, owner...)
}

// appendID writes an ID in BigEndian order so lexicographic sort matches
// numeric order.
func appendID(buf []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makeOwnerItemPrefix generates the scan prefix for one owner's items.
func makeOwnerItemPrefix(owner string) []byte {
	buf := append([]byte(itemRecordPrefix), ':')
	return appendOwner(buf, owner)
}

// makeItemKey generates the primary key for a content item.
// Format: prefix:owner:id
func makeItemKey(owner string, id core.ID) []byte {
	return appendID(makeOwnerItemPrefix(owner), id)
}

// makeOwnerItemDatePrefix generates the scan prefix for one owner's date index.
func makeOwnerItemDatePrefix(owner string) []byte {
	buf := append([]byte(itemDatePrefix), ':')
	return appendOwner(buf, owner)
}

// makeItemDateKey generates a composite key for the creation-date index.
// Format: prefix:owner:timestamp:id
func makeItemDateKey(owner string, timestamp time.Time, id core.ID) []byte {
	buf := makeOwnerItemDatePrefix(owner)
	buf = binary.BigEndian.AppendUint64(buf, uint64(timestamp.UnixMicro()))
	return appendID(buf, id)
}

// makePartialItemTagKey generates the scan prefix for one tag of one owner.
// Format: prefix:owner:tagID
func makePartialItemTagKey(owner string, tagID core.ID) []byte {
	buf := append([]byte(itemTagPrefix), ':')
	buf = appendOwner(buf, owner)
	return appendID(buf, tagID)
}

// makeItemTagKey generates a composite key for the tag index.
// Format: prefix:owner:tagID:itemID
func makeItemTagKey(owner string, tagID, itemID core.ID) []byte {
	return appendID(makePartialItemTagKey(owner, tagID), itemID)
}

// makePartialChatKey generates the scan prefix for one conversation.
// Format: prefix:owner:chatID
func makePartialChatKey(owner string, chatID core.ID) []byte {
	buf := append([]byte(chatMessagePrefix), ':')
	buf = appendOwner(buf, owner)
	return appendID(buf, chatID)
}

// makeChatMessageKey generates the primary key for a chat message. Message
// IDs come from an increasing sequence, so iterating a conversation prefix
// yields messages in insertion order.
// Format: prefix:owner:chatID:messageID
func makeChatMessageKey(owner string, chatID, messageID core.ID) []byte {
	return appendID(makePartialChatKey(owner, chatID), messageID)
}
