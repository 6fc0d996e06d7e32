// Package testsupport provides in-memory fakes of the remote capability
// surface so component tests can observe remote reads and writes without a
// transport.
package testsupport

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// FakeCourseClient implements interfaces.CourseClient and
// interfaces.QuizItemClient against process-local maps. Every mutating call
// is counted so tests can assert idempotence (zero writes on a clean second
// run).
type FakeCourseClient struct {
	Objects map[string]*interfaces.RemoteObject
	Folders map[string]*interfaces.RemoteFolder
	Files   map[string][]*interfaces.RemoteFile // folder ID -> files
	Items   map[string][]*interfaces.RemoteItem // quiz ID -> items

	Creates int
	Edits   int
	Uploads int
	Deletes int

	// FailGets simulates remote drift: object IDs whose reads fail.
	FailGets map[string]bool
	// FailUploads simulates per-file upload failures keyed by base name.
	FailUploads map[string]bool
	// FailDeletes simulates per-file delete failures keyed by file ID.
	FailDeletes map[string]bool

	nextID int
}

// NewFakeCourseClient returns an empty fake backend.
func NewFakeCourseClient() *FakeCourseClient {
	return &FakeCourseClient{
		Objects:     map[string]*interfaces.RemoteObject{},
		Folders:     map[string]*interfaces.RemoteFolder{},
		Files:       map[string][]*interfaces.RemoteFile{},
		Items:       map[string][]*interfaces.RemoteItem{},
		FailGets:    map[string]bool{},
		FailUploads: map[string]bool{},
		FailDeletes: map[string]bool{},
	}
}

// Writes reports the total number of mutating remote calls performed.
func (f *FakeCourseClient) Writes() int {
	return f.Creates + f.Edits + f.Uploads + f.Deletes
}

func (f *FakeCourseClient) CreateObject(_ context.Context, objType interfaces.ObjectType, fields interfaces.ObjectFields) (*interfaces.RemoteObject, error) {
	f.Creates++
	obj := &interfaces.RemoteObject{
		ID:    f.id(),
		Type:  objType,
		Title: stringField(fields, "title"),
	}
	if published, ok := fields["published"].(bool); ok {
		obj.Published = published
	}
	obj.URL = fmt.Sprintf("https://remote.example/%s/%s", objType, obj.ID)
	f.Objects[obj.ID] = obj
	return obj, nil
}

func (f *FakeCourseClient) GetObject(_ context.Context, objType interfaces.ObjectType, id string) (*interfaces.RemoteObject, error) {
	if f.FailGets[id] {
		return nil, fmt.Errorf("remote object %s not found", id)
	}
	obj, ok := f.Objects[id]
	if !ok || obj.Type != objType {
		return nil, fmt.Errorf("remote object %s not found", id)
	}
	return obj, nil
}

func (f *FakeCourseClient) EditObject(_ context.Context, objType interfaces.ObjectType, id string, fields interfaces.ObjectFields) (*interfaces.RemoteObject, error) {
	obj, ok := f.Objects[id]
	if !ok || obj.Type != objType {
		return nil, fmt.Errorf("remote object %s not found", id)
	}
	f.Edits++
	if title := stringField(fields, "title"); title != "" {
		obj.Title = title
	}
	if published, ok := fields["published"].(bool); ok {
		obj.Published = published
	}
	return obj, nil
}

func (f *FakeCourseClient) DeleteObject(_ context.Context, objType interfaces.ObjectType, id string) error {
	obj, ok := f.Objects[id]
	if !ok || obj.Type != objType {
		return fmt.Errorf("remote object %s not found", id)
	}
	f.Deletes++
	delete(f.Objects, id)
	return nil
}

func (f *FakeCourseClient) ListObjects(_ context.Context, objType interfaces.ObjectType, filter interfaces.ObjectFilter) ([]*interfaces.RemoteObject, error) {
	var out []*interfaces.RemoteObject
	for _, obj := range f.Objects {
		if obj.Type != objType {
			continue
		}
		if filter.SearchTerm != "" && !strings.Contains(obj.Title, filter.SearchTerm) {
			continue
		}
		out = append(out, obj)
	}
	return out, nil
}

func (f *FakeCourseClient) UploadBinary(_ context.Context, folderID string, localPath string) (*interfaces.RemoteFile, error) {
	base := localPath[strings.LastIndexByte(localPath, '/')+1:]
	if f.FailUploads[base] {
		return nil, fmt.Errorf("upload %s refused", base)
	}
	f.Uploads++
	file := &interfaces.RemoteFile{
		ID:   f.id(),
		Name: base,
	}
	file.URL = "https://remote.example/files/" + file.ID
	f.Files[folderID] = append(f.Files[folderID], file)
	return file, nil
}

func (f *FakeCourseClient) ListFolders(context.Context) ([]*interfaces.RemoteFolder, error) {
	var out []*interfaces.RemoteFolder
	for _, folder := range f.Folders {
		out = append(out, folder)
	}
	return out, nil
}

func (f *FakeCourseClient) CreateFolder(_ context.Context, name string) (*interfaces.RemoteFolder, error) {
	f.Creates++
	folder := &interfaces.RemoteFolder{ID: f.id(), Name: name}
	f.Folders[folder.ID] = folder
	return folder, nil
}

func (f *FakeCourseClient) ListFolderContents(_ context.Context, folderID string) ([]*interfaces.RemoteFile, error) {
	return append([]*interfaces.RemoteFile(nil), f.Files[folderID]...), nil
}

func (f *FakeCourseClient) DeleteFile(_ context.Context, id string) error {
	if f.FailDeletes[id] {
		return fmt.Errorf("delete %s refused", id)
	}
	f.Deletes++
	for folderID, files := range f.Files {
		kept := files[:0]
		for _, file := range files {
			if file.ID != id {
				kept = append(kept, file)
			}
		}
		f.Files[folderID] = kept
	}
	return nil
}

func (f *FakeCourseClient) ListItems(_ context.Context, quizID string) ([]*interfaces.RemoteItem, error) {
	return append([]*interfaces.RemoteItem(nil), f.Items[quizID]...), nil
}

func (f *FakeCourseClient) CreateItem(_ context.Context, quizID string, payload interfaces.ObjectFields) (*interfaces.RemoteItem, error) {
	f.Creates++
	item := &interfaces.RemoteItem{ID: f.id(), Position: len(f.Items[quizID]) + 1}
	if entry, ok := payload["entry"].(map[string]any); ok {
		item.Title = stringField(entry, "title")
	}
	f.Items[quizID] = append(f.Items[quizID], item)
	return item, nil
}

func (f *FakeCourseClient) UpdateItem(_ context.Context, quizID, itemID string, payload interfaces.ObjectFields) (*interfaces.RemoteItem, error) {
	for _, item := range f.Items[quizID] {
		if item.ID == itemID {
			f.Edits++
			if entry, ok := payload["entry"].(map[string]any); ok {
				item.Title = stringField(entry, "title")
			}
			return item, nil
		}
	}
	return nil, fmt.Errorf("quiz item %s not found", itemID)
}

func (f *FakeCourseClient) DeleteItem(_ context.Context, quizID, itemID string) error {
	items := f.Items[quizID]
	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return fmt.Errorf("quiz item %s not found", itemID)
	}
	f.Deletes++
	f.Items[quizID] = kept
	return nil
}

// SeedObject inserts a remote object without counting it as a write.
func (f *FakeCourseClient) SeedObject(obj *interfaces.RemoteObject) {
	if obj.ID == "" {
		obj.ID = f.id()
	}
	if obj.URL == "" {
		obj.URL = fmt.Sprintf("https://remote.example/%s/%s", obj.Type, obj.ID)
	}
	f.Objects[obj.ID] = obj
}

// SeedFolder inserts a folder without counting it as a write.
func (f *FakeCourseClient) SeedFolder(folder *interfaces.RemoteFolder) {
	if folder.ID == "" {
		folder.ID = f.id()
	}
	f.Folders[folder.ID] = folder
}

// SeedFile inserts a file into a folder without counting it as a write.
func (f *FakeCourseClient) SeedFile(folderID string, file *interfaces.RemoteFile) {
	if file.ID == "" {
		file.ID = f.id()
	}
	f.Files[folderID] = append(f.Files[folderID], file)
}

func (f *FakeCourseClient) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID + 1000)
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}
