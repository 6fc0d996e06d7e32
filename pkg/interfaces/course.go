package interfaces

import "context"

// ObjectType identifies the kind of remote course object a sync operation
// targets. The zero value is not valid; callers always resolve a type from
// the artifact's declared metadata before touching the remote side.
type ObjectType string

const (
	ObjectPage       ObjectType = "page"
	ObjectAssignment ObjectType = "assignment"
	ObjectQuiz       ObjectType = "quiz"
	ObjectEvent      ObjectType = "event"
)

// ObjectFields carries the writable fields of a remote object. The remote
// schema beyond the fields the sync engine reads and writes is owned by the
// backend, so the payload stays an open map.
type ObjectFields = map[string]any

// ObjectFilter restricts ListObjects calls. SearchTerm is forwarded to the
// provider; exact-title matching on the returned collection remains the
// caller's job because most backends match substrings.
type ObjectFilter struct {
	SearchTerm string
}

// RemoteObject is the minimal view of a remote course object the sync core
// reads back from the provider.
type RemoteObject struct {
	ID        string
	Type      ObjectType
	Title     string
	URL       string
	Published bool
}

// RemoteFolder identifies a file folder on the remote side.
type RemoteFolder struct {
	ID   string
	Name string
}

// RemoteFile identifies an uploaded binary together with its public URL.
type RemoteFile struct {
	ID   string
	Name string
	URL  string
}

// CourseClient is the remote capability surface consumed by the sync core.
// Implementations own transport, authentication, and retries; the core only
// depends on this contract.
type CourseClient interface {
	CreateObject(ctx context.Context, objType ObjectType, fields ObjectFields) (*RemoteObject, error)
	GetObject(ctx context.Context, objType ObjectType, id string) (*RemoteObject, error)
	EditObject(ctx context.Context, objType ObjectType, id string, fields ObjectFields) (*RemoteObject, error)
	ListObjects(ctx context.Context, objType ObjectType, filter ObjectFilter) ([]*RemoteObject, error)
	DeleteObject(ctx context.Context, objType ObjectType, id string) error

	UploadBinary(ctx context.Context, folderID string, localPath string) (*RemoteFile, error)
	ListFolders(ctx context.Context) ([]*RemoteFolder, error)
	CreateFolder(ctx context.Context, name string) (*RemoteFolder, error)
	ListFolderContents(ctx context.Context, folderID string) ([]*RemoteFile, error)
	DeleteFile(ctx context.Context, id string) error
}

// QuizItemClient extends the capability surface with quiz item sub-resources.
// Items live under a quiz object and are reconciled individually so question
// identities survive repeated runs.
type QuizItemClient interface {
	ListItems(ctx context.Context, quizID string) ([]*RemoteItem, error)
	CreateItem(ctx context.Context, quizID string, payload ObjectFields) (*RemoteItem, error)
	UpdateItem(ctx context.Context, quizID, itemID string, payload ObjectFields) (*RemoteItem, error)
	DeleteItem(ctx context.Context, quizID, itemID string) error
}

// RemoteItem is the minimal view of a quiz item the sync core tracks.
type RemoteItem struct {
	ID       string
	Position int
	Title    string
}
