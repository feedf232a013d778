// Package curriculum models a degree programme as fetched from the
// curriculum API: a tree of modules containing courses, plus the
// prerequisite courses that live outside the tree.
//
// # Model
//
// A [Programme] owns an ordered list of top-level [Module] values. Modules
// nest and hold ordered [Course] values. Courses reference their
// prerequisites by identifier (the course unit group id), never by
// pointer, so the tree has no back-references and can be copied and
// filtered freely.
//
// # Identifiers
//
// Each entity has an identifier, a code and a key. Callers may name an
// entity by any of the three; [Match] performs the comparison and treats
// "." and "_" as equal because keys replace the dots of codes:
//
//	COMP.CS.100 == COMP_CS_100
//
// # Stages
//
// [Filter] removes blacklisted entities and every reference to them.
// [Compress] collapses single-child wrapper modules.
package curriculum
