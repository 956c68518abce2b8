// Package storage holds the records persisted in BadgerDB.
package storage

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// MessageRecord is a stored message with its ordered raw fragments.
type MessageRecord struct {
	Nonce               string
	ConversationId      string
	SenderId            string
	ServerTimestamp     int64
	DestructionDeadline *timestamppb.Timestamp
	IsObfuscated        bool
	Fragments           [][]byte
	LinkPreviewState    int32
	Deleted             bool
	IsSent              bool

	unknownFields protoreflect.RawFields
}

// messageRecordProto is the schema of MessageRecord:
//
//	message MessageRecord {
//	  string nonce = 1;
//	  string conversation_id = 2;
//	  string sender_id = 3;
//	  int64 server_timestamp = 4;
//	  google.protobuf.Timestamp destruction_deadline = 5;
//	  bool is_obfuscated = 6;
//	  repeated bytes fragments = 7;
//	  int32 link_preview_state = 8;
//	  bool deleted = 9;
//	  bool is_sent = 10;
//	}
var messageRecordProto = &descriptorpb.FileDescriptorProto{
	Name:       proto.String("storage/message_record.proto"),
	Package:    proto.String("otrlab.storage"),
	Syntax:     proto.String("proto3"),
	Dependency: []string{"google/protobuf/timestamp.proto"},
	MessageType: []*descriptorpb.DescriptorProto{{
		Name: proto.String("MessageRecord"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalar("nonce", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("conversation_id", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("sender_id", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("server_timestamp", 4, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			{
				Name:     proto.String("destruction_deadline"),
				Number:   proto.Int32(5),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				TypeName: proto.String(".google.protobuf.Timestamp"),
			},
			scalar("is_obfuscated", 6, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			{
				Name:   proto.String("fragments"),
				Number: proto.Int32(7),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
				Type:   descriptorpb.FieldDescriptorProto_TYPE_BYTES.Enum(),
			},
			scalar("link_preview_state", 8, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("deleted", 9, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			scalar("is_sent", 10, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
		},
	}},
}

var (
	messageRecordDescriptor = mustMessageDescriptor(messageRecordProto, "MessageRecord")
	recordFields            = messageRecordDescriptor.Fields()

	fieldNonce               = recordFields.ByNumber(1)
	fieldConversationID      = recordFields.ByNumber(2)
	fieldSenderID            = recordFields.ByNumber(3)
	fieldServerTimestamp     = recordFields.ByNumber(4)
	fieldDestructionDeadline = recordFields.ByNumber(5)
	fieldIsObfuscated        = recordFields.ByNumber(6)
	fieldFragments           = recordFields.ByNumber(7)
	fieldLinkPreviewState    = recordFields.ByNumber(8)
	fieldDeleted             = recordFields.ByNumber(9)
	fieldIsSent              = recordFields.ByNumber(10)
)

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func mustMessageDescriptor(file *descriptorpb.FileDescriptorProto, name protoreflect.Name) protoreflect.MessageDescriptor {
	fd, err := protodesc.NewFile(file, protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("storage schema %s: %v", file.GetName(), err))
	}
	return fd.Messages().ByName(name)
}

func newDynamicRecord() protoreflect.Message {
	return dynamicpb.NewMessage(messageRecordDescriptor)
}

func (r *MessageRecord) Marshal() ([]byte, error) {
	m := newDynamicRecord()
	m.Set(fieldNonce, protoreflect.ValueOfString(r.Nonce))
	m.Set(fieldConversationID, protoreflect.ValueOfString(r.ConversationId))
	m.Set(fieldSenderID, protoreflect.ValueOfString(r.SenderId))
	m.Set(fieldServerTimestamp, protoreflect.ValueOfInt64(r.ServerTimestamp))
	if r.DestructionDeadline != nil {
		ts := m.Mutable(fieldDestructionDeadline).Message()
		tsFields := ts.Descriptor().Fields()
		ts.Set(tsFields.ByName("seconds"), protoreflect.ValueOfInt64(r.DestructionDeadline.GetSeconds()))
		ts.Set(tsFields.ByName("nanos"), protoreflect.ValueOfInt32(r.DestructionDeadline.GetNanos()))
	}
	m.Set(fieldIsObfuscated, protoreflect.ValueOfBool(r.IsObfuscated))
	if len(r.Fragments) > 0 {
		fragments := m.Mutable(fieldFragments).List()
		for _, f := range r.Fragments {
			fragments.Append(protoreflect.ValueOfBytes(f))
		}
	}
	m.Set(fieldLinkPreviewState, protoreflect.ValueOfInt32(r.LinkPreviewState))
	m.Set(fieldDeleted, protoreflect.ValueOfBool(r.Deleted))
	m.Set(fieldIsSent, protoreflect.ValueOfBool(r.IsSent))
	m.SetUnknown(r.unknownFields)

	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(m.Interface())
	if err != nil {
		return nil, fmt.Errorf("message record: %w", err)
	}
	return b, nil
}

func (r *MessageRecord) Unmarshal(b []byte) error {
	m := newDynamicRecord()
	if err := proto.Unmarshal(b, m.Interface()); err != nil {
		return fmt.Errorf("message record: %w", err)
	}
	r.Nonce = m.Get(fieldNonce).String()
	r.ConversationId = m.Get(fieldConversationID).String()
	r.SenderId = m.Get(fieldSenderID).String()
	r.ServerTimestamp = m.Get(fieldServerTimestamp).Int()
	r.DestructionDeadline = nil
	if m.Has(fieldDestructionDeadline) {
		ts := m.Get(fieldDestructionDeadline).Message()
		tsFields := ts.Descriptor().Fields()
		r.DestructionDeadline = &timestamppb.Timestamp{
			Seconds: ts.Get(tsFields.ByName("seconds")).Int(),
			Nanos:   int32(ts.Get(tsFields.ByName("nanos")).Int()),
		}
	}
	r.IsObfuscated = m.Get(fieldIsObfuscated).Bool()
	r.Fragments = nil
	fragments := m.Get(fieldFragments).List()
	for i := 0; i < fragments.Len(); i++ {
		r.Fragments = append(r.Fragments, append([]byte(nil), fragments.Get(i).Bytes()...))
	}
	r.LinkPreviewState = int32(m.Get(fieldLinkPreviewState).Int())
	r.Deleted = m.Get(fieldDeleted).Bool()
	r.IsSent = m.Get(fieldIsSent).Bool()
	r.unknownFields = append(protoreflect.RawFields(nil), m.GetUnknown()...)
	return nil
}
