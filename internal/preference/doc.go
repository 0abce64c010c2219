// Package preference builds settings trees from markup and keeps their values
// in sync with a key-value store.
//
// # Overview
//
// A settings screen is declared as nested item and group elements inside a
// PreferenceSet. Parse turns that markup into a Tree of Nodes. A Manager then
// loads each node's stored values, repairs values that no longer fit, and
// writes changes back as the user interacts.
//
// # Markup
//
//	<PreferenceSet preference_accessName="settings">
//	  <group preference_id="1" preference_accessName="display"
//	         preference_title="@string/display_title">
//	    <item preference_id="2" preference_accessName="theme"
//	          preference_type="radio" preference_radioMap="@xml/theme_options"/>
//	  </group>
//	</PreferenceSet>
//
// Attribute names may carry a "preference_" prefix. Values of the form
// "@type/name" are resolved through a resource.Table. Malformed literals fall
// back to the attribute default. The PreferenceSet accessName becomes the
// store namespace.
//
// # Node Kinds
//
// Every node has exactly one Kind:
//
//	explain   title and description only; groups are always explain
//	text      free text input
//	radio     one entry of a radio map
//	seekBar   integer slider with optional mute
//	intent    opens an external target supplied by the consumer
//	event     runs a consumer callback
//
// A Switch may be attached to explain, text and radio nodes. Capabilities that
// do not apply to a node are present but disabled, so callers never check for
// nil.
//
// # Error Handling
//
// Structural problems abort parsing with a *ParseError carrying the markup
// position: duplicate ids, duplicate access names, missing required
// attributes, unresolved references. A radio map that cannot be read only
// disables that node's radio; the failure is logged and kept in
// Tree.Problems.
//
// # Persistence
//
// Each node owns three keys: <accessName>_switchValue,
// <accessName>_contentValue and <accessName>_contentValueRaw. Load replaces a
// radio raw key missing from the map with the first entry, and replaces
// unparsable seek bar values with the default. Repaired values are saved
// immediately. A SaveOptimizer sees every write first and may redirect or
// drop it.
//
// # Concurrency
//
// Trees and Managers are not safe for concurrent use. Event callbacks run on
// the configured Dispatcher or on their own goroutine.
package preference
