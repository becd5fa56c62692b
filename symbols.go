package gitcore

// symbolSpec declares one required native entry point: its exact symbol name
// plus the calling signature used to prep the libffi call interface. Pointer
// and pointer-to-pointer parameters are both ctPointer; the out-parameter
// protocol lives entirely on the caller's side.
type symbolSpec struct {
	name   string
	ret    ctype
	params []ctype
}

// gitSymbols is the versioned ABI surface this binding consumes. Every name
// must resolve at load time; see Lib.bindAll.
var gitSymbols = []symbolSpec{
	// runtime
	{"git_libgit2_init", ctInt32, nil},
	{"git_libgit2_shutdown", ctInt32, nil},
	{"git_libgit2_version", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_error_last", ctPointer, nil},

	// repository
	{"git_repository_open", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_repository_free", ctVoid, []ctype{ctPointer}},
	{"git_repository_path", ctPointer, []ctype{ctPointer}},
	{"git_repository_is_bare", ctInt32, []ctype{ctPointer}},
	{"git_repository_is_empty", ctInt32, []ctype{ctPointer}},
	{"git_repository_head", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_repository_config", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_repository_odb", ctInt32, []ctype{ctPointer, ctPointer}},

	// references
	{"git_reference_name", ctPointer, []ctype{ctPointer}},
	{"git_reference_shorthand", ctPointer, []ctype{ctPointer}},
	{"git_reference_target", ctPointer, []ctype{ctPointer}},
	{"git_reference_free", ctVoid, []ctype{ctPointer}},

	// commits
	{"git_commit_lookup", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_commit_lookup_prefix", ctInt32, []ctype{ctPointer, ctPointer, ctPointer, ctSize}},
	{"git_commit_id", ctPointer, []ctype{ctPointer}},
	{"git_commit_message", ctPointer, []ctype{ctPointer}},
	{"git_commit_summary", ctPointer, []ctype{ctPointer}},
	{"git_commit_author", ctPointer, []ctype{ctPointer}},
	{"git_commit_committer", ctPointer, []ctype{ctPointer}},
	{"git_commit_time", ctInt64, []ctype{ctPointer}},
	{"git_commit_tree", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_commit_parentcount", ctUint32, []ctype{ctPointer}},
	{"git_commit_parent_id", ctPointer, []ctype{ctPointer, ctUint32}},
	{"git_commit_free", ctVoid, []ctype{ctPointer}},

	// trees
	{"git_tree_lookup", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_tree_id", ctPointer, []ctype{ctPointer}},
	{"git_tree_entrycount", ctSize, []ctype{ctPointer}},
	{"git_tree_entry_byindex", ctPointer, []ctype{ctPointer, ctSize}},
	{"git_tree_entry_name", ctPointer, []ctype{ctPointer}},
	{"git_tree_entry_id", ctPointer, []ctype{ctPointer}},
	{"git_tree_entry_type", ctInt32, []ctype{ctPointer}},
	{"git_tree_entry_filemode", ctInt32, []ctype{ctPointer}},
	{"git_tree_free", ctVoid, []ctype{ctPointer}},

	// blobs
	{"git_blob_lookup", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_blob_id", ctPointer, []ctype{ctPointer}},
	{"git_blob_rawsize", ctInt64, []ctype{ctPointer}},
	{"git_blob_rawcontent", ctPointer, []ctype{ctPointer}},
	{"git_blob_is_binary", ctInt32, []ctype{ctPointer}},
	{"git_blob_free", ctVoid, []ctype{ctPointer}},

	// tags
	{"git_tag_lookup", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_tag_name", ctPointer, []ctype{ctPointer}},
	{"git_tag_message", ctPointer, []ctype{ctPointer}},
	{"git_tag_target_id", ctPointer, []ctype{ctPointer}},
	{"git_tag_tagger", ctPointer, []ctype{ctPointer}},
	{"git_tag_free", ctVoid, []ctype{ctPointer}},
	{"git_tag_foreach", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},

	// config
	{"git_config_snapshot", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_config_get_string", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_config_foreach", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_config_free", ctVoid, []ctype{ctPointer}},

	// revwalk
	{"git_revwalk_new", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_revwalk_push_head", ctInt32, []ctype{ctPointer}},
	{"git_revwalk_push", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_revwalk_sorting", ctInt32, []ctype{ctPointer, ctUint32}},
	{"git_revwalk_next", ctInt32, []ctype{ctPointer, ctPointer}},
	{"git_revwalk_free", ctVoid, []ctype{ctPointer}},

	// status
	{"git_status_list_new", ctInt32, []ctype{ctPointer, ctPointer, ctPointer}},
	{"git_status_list_entrycount", ctSize, []ctype{ctPointer}},
	{"git_status_byindex", ctPointer, []ctype{ctPointer, ctSize}},
	{"git_status_list_free", ctVoid, []ctype{ctPointer}},

	// odb
	{"git_odb_read_header", ctInt32, []ctype{ctPointer, ctPointer, ctPointer, ctPointer}},
	{"git_odb_free", ctVoid, []ctype{ctPointer}},
}
