package functions

import (
	"github.com/crystal-mush/mushcode/pkg/eval"
)

// RegisterAll installs every built-in function into the context's
// function table. Names are uppercase; the evaluator folds lookups.
// The FX bits on side-effecting functions let nofx()/sandbox() forbid
// whole classes of effects at dispatch time.
func RegisterAll(ctx *eval.EvalContext) {
	reg := ctx.RegisterFunction

	// Arithmetic
	reg("ADD", fnAdd, 0, eval.FnVarArgs)
	reg("SUB", fnSub, 2, 0)
	reg("MUL", fnMul, 0, eval.FnVarArgs)
	reg("FADD", fnFadd, 2, 0)
	reg("FSUB", fnFsub, 2, 0)
	reg("FMUL", fnFmul, 2, 0)
	reg("DIV", fnDiv, 2, 0)
	reg("FDIV", fnFdiv, 2, 0)
	reg("FLOORDIV", fnFloordiv, 2, 0)
	reg("MODULO", fnModulo, 2, 0)
	reg("ABS", fnAbs, 1, 0)
	reg("SIGN", fnSign, 1, 0)
	reg("INC", fnInc, 1, 0)
	reg("DEC", fnDec, 1, 0)
	reg("ROUND", fnRound, 2, 0)
	reg("TRUNC", fnTrunc, 1, 0)
	reg("FLOOR", fnFloor, 1, 0)
	reg("CEIL", fnCeil, 1, 0)
	reg("SQRT", fnSqrt, 1, 0)
	reg("POWER", fnPower, 2, 0)
	reg("MAX", fnMax, 0, eval.FnVarArgs)
	reg("MIN", fnMin, 0, eval.FnVarArgs)
	reg("BOUND", fnBound, 0, eval.FnVarArgs)
	reg("PI", fnPi, 0, 0)
	reg("E", fnE, 0, 0)
	reg("EXP", fnExp, 1, 0)
	reg("LN", fnLn, 1, 0)
	reg("LOG", fnLog, 0, eval.FnVarArgs)
	reg("FMOD", fnFmod, 2, 0)
	reg("AVG", fnAvg, 0, eval.FnVarArgs)
	reg("MEDIAN", fnMedian, 0, eval.FnVarArgs)
	reg("BETWEEN", fnBetween, 3, 0)
	reg("DIST2D", fnDist2d, 4, 0)
	reg("DIST3D", fnDist3d, 6, 0)
	reg("ROMAN", fnRoman, 1, 0)
	reg("TOBIN", fnTobin, 1, 0)
	reg("TODEC", fnTodec, 0, eval.FnVarArgs)
	reg("TOHEX", fnTohex, 1, 0)
	reg("TOOCT", fnTooct, 1, 0)

	// Trigonometry
	reg("SIN", fnSin, 1, 0)
	reg("SIND", fnSind, 1, 0)
	reg("COS", fnCos, 1, 0)
	reg("COSD", fnCosd, 1, 0)
	reg("TAN", fnTan, 1, 0)
	reg("TAND", fnTand, 1, 0)
	reg("ASIN", fnAsin, 1, 0)
	reg("ASIND", fnAsind, 1, 0)
	reg("ACOS", fnAcos, 1, 0)
	reg("ACOSD", fnAcosd, 1, 0)
	reg("ATAN", fnAtan, 1, 0)
	reg("ATAND", fnAtand, 1, 0)
	reg("ATAN2", fnAtan2, 2, 0)
	reg("SINH", fnSinh, 1, 0)
	reg("COSH", fnCosh, 1, 0)
	reg("TANH", fnTanh, 1, 0)

	// Comparison and boolean logic
	reg("GT", fnGt, 2, 0)
	reg("GTE", fnGte, 2, 0)
	reg("LT", fnLt, 2, 0)
	reg("LTE", fnLte, 2, 0)
	reg("EQ", fnEq, 2, 0)
	reg("NEQ", fnNeq, 2, 0)
	reg("NCOMP", fnNcomp, 2, 0)
	reg("AND", fnAnd, 0, eval.FnVarArgs)
	reg("OR", fnOr, 0, eval.FnVarArgs)
	reg("XOR", fnXor, 0, eval.FnVarArgs)
	reg("NOT", fnNot, 1, 0)
	reg("NOTBOOL", fnNotBool, 1, 0)
	reg("T", fnT, 1, 0)
	reg("NAND", fnNand, 0, eval.FnVarArgs)
	reg("NOR", fnNor, 0, eval.FnVarArgs)
	reg("XNOR", fnXnor, 0, eval.FnVarArgs)
	reg("ANDBOOL", fnAndbool, 0, eval.FnVarArgs)
	reg("ORBOOL", fnOrbool, 0, eval.FnVarArgs)
	reg("XORBOOL", fnXorbool, 0, eval.FnVarArgs)
	reg("CAND", fnCand, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("CANDBOOL", fnCandbool, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("COR", fnCor, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("CORBOOL", fnCorbool, 0, eval.FnVarArgs|eval.FnNoEval)

	// Bitwise
	reg("SHL", fnShl, 2, 0)
	reg("SHR", fnShr, 2, 0)
	reg("BAND", fnBand, 2, 0)
	reg("BOR", fnBor, 2, 0)
	reg("BNAND", fnBnand, 2, 0)

	// Vectors
	reg("VADD", fnVadd, 0, eval.FnVarArgs)
	reg("VSUB", fnVsub, 0, eval.FnVarArgs)
	reg("VMUL", fnVmul, 0, eval.FnVarArgs)
	reg("VDOT", fnVdot, 0, eval.FnVarArgs)
	reg("VMAG", fnVmag, 0, eval.FnVarArgs)
	reg("VUNIT", fnVunit, 0, eval.FnVarArgs)
	reg("VDIM", fnVdim, 0, eval.FnVarArgs)
	reg("VCROSS", fnVcross, 0, eval.FnVarArgs)
	reg("VDIST", fnVdist, 0, eval.FnVarArgs)
	reg("VLERP", fnVlerp, 0, eval.FnVarArgs)
	reg("VNEAR", fnVnear, 0, eval.FnVarArgs)
	reg("VCLAMP", fnVclamp, 0, eval.FnVarArgs)

	// Strings
	reg("CAT", fnCat, 0, eval.FnVarArgs)
	reg("STRCAT", fnStrcat, 0, eval.FnVarArgs)
	reg("STRLEN", fnStrlen, 1, 0)
	reg("MID", fnMid, 3, 0)
	reg("LEFT", fnLeft, 2, 0)
	reg("RIGHT", fnRight, 2, 0)
	reg("LCSTR", fnLcstr, 1, 0)
	reg("UCSTR", fnUcstr, 1, 0)
	reg("CAPSTR", fnCapstr, 1, 0)
	reg("CAPLIST", fnCaplist, 0, eval.FnVarArgs)
	reg("POS", fnPos, 2, 0)
	reg("LPOS", fnLpos, 2, 0)
	reg("EDIT", fnEdit, 3, 0)
	reg("REPLACE", fnReplace, 0, eval.FnVarArgs)
	reg("TRIM", fnTrim, 0, eval.FnVarArgs)
	reg("SQUISH", fnSquish, 0, eval.FnVarArgs)
	reg("LJUST", fnLjust, 0, eval.FnVarArgs)
	reg("RJUST", fnRjust, 0, eval.FnVarArgs)
	reg("CENTER", fnCenter, 0, eval.FnVarArgs)
	reg("REPEAT", fnRepeat, 2, 0)
	reg("SPACE", fnSpace, 1, 0)
	reg("ESCAPE", fnEscape, -1, 0)
	reg("SECURE", fnSecure, -1, 0)
	reg("NESCAPE", fnNescape, -1, 0)
	reg("NSECURE", fnNsecure, -1, 0)
	reg("ANSI", fnAnsi, 2, 0)
	reg("STRIPANSI", fnStripansi, 1, 0)
	reg("BEFORE", fnBefore, 2, 0)
	reg("AFTER", fnAfter, 2, 0)
	reg("REVERSE", fnReverse, 1, 0)
	reg("SCRAMBLE", fnScramble, 1, 0)
	reg("STRMATCH", fnStrmatch, 2, 0)
	reg("COMP", fnComp, 2, 0)
	reg("STREQ", fnStreq, 2, 0)
	reg("MATCH", fnMatch, 0, eval.FnVarArgs)
	reg("MATCHALL", fnMatchall, 0, eval.FnVarArgs)
	reg("DELETE", fnDelete, 3, 0)
	reg("CHOMP", fnChomp, 1, 0)
	reg("TRANSLATE", fnTranslate, 2, 0)
	reg("ISNUM", fnIsnum, 1, 0)
	reg("ISDBREF", fnIsdbref, 1, 0)
	reg("ISWORD", fnIsword, 1, 0)
	reg("ISALNUM", fnIsalnum, 1, 0)
	reg("ISALPHA", fnIsalpha, 1, 0)
	reg("ISDIGIT", fnIsdigit, 1, 0)
	reg("ISUPPER", fnIsupper, 1, 0)
	reg("ISLOWER", fnIslower, 1, 0)
	reg("ISSPACE", fnIsspace, 1, 0)
	reg("ISPUNCT", fnIspunct, 1, 0)
	reg("SPELLNUM", fnSpellnum, 1, 0)
	reg("ART", fnArt, 1, 0)
	reg("WORDPOS", fnWordpos, 0, eval.FnVarArgs)
	reg("INDEX", fnIndex, 4, 0)
	reg("ENCRYPT", fnEncrypt, 2, 0)
	reg("DECRYPT", fnDecrypt, 2, 0)
	reg("CRYPT", fnCrypt, 2, 0)
	reg("CHECKPASS", fnCheckpass, 2, 0)
	reg("HTML_ESCAPE", fnHtmlEscape, -1, 0)
	reg("HTML_UNESCAPE", fnHtmlUnescape, -1, 0)
	reg("URL_ESCAPE", fnUrlEscape, -1, 0)
	reg("URL_UNESCAPE", fnUrlUnescape, -1, 0)
	reg("ANSIPOS", fnAnsipos, 0, eval.FnVarArgs)
	reg("SPEAK", fnSpeak, 0, eval.FnVarArgs)
	reg("BORDER", fnBorder, 0, eval.FnVarArgs)
	reg("CBORDER", fnCborder, 0, eval.FnVarArgs)
	reg("RBORDER", fnRborder, 0, eval.FnVarArgs)
	reg("PRINTF", fnPrintf, 0, eval.FnVarArgs)
	reg("TR", fnTr, 3, 0)
	reg("STRDISTANCE", fnStrdistance, 2, 0)
	reg("STRLENVIS", fnStrlenvis, 1, 0)
	reg("ENCODE64", fnEncode64, -1, 0)
	reg("DECODE64", fnDecode64, -1, 0)
	reg("DIGEST", fnDigest, 2, 0)
	reg("CRC32", fnCrc32, -1, 0)
	reg("ASC", fnAsc, 1, 0)
	reg("CHR", fnChr, 1, 0)
	reg("STRIP", fnStrip, 0, eval.FnVarArgs)
	reg("SOUNDEX", fnSoundex, 1, 0)
	reg("SOUNDLIKE", fnSoundlike, 2, 0)
	reg("GARBLE", fnGarble, 0, eval.FnVarArgs)

	// Lists
	reg("WORDS", fnWords, 0, eval.FnVarArgs)
	reg("FIRST", fnFirst, 0, eval.FnVarArgs)
	reg("REST", fnRest, 0, eval.FnVarArgs)
	reg("LAST", fnLast, 0, eval.FnVarArgs)
	reg("EXTRACT", fnExtract, 0, eval.FnVarArgs)
	reg("ELEMENTS", fnElements, 0, eval.FnVarArgs)
	reg("ELEMENTPOS", fnElementpos, 0, eval.FnVarArgs)
	reg("LNUM", fnLnum, 0, eval.FnVarArgs)
	reg("MEMBER", fnMember, 0, eval.FnVarArgs)
	reg("REMOVE", fnRemove, 0, eval.FnVarArgs)
	reg("INSERT", fnInsert, 0, eval.FnVarArgs)
	reg("LDELETE", fnLdelete, 0, eval.FnVarArgs)
	reg("SORT", fnSort, 0, eval.FnVarArgs)
	reg("ISORT", fnIsort, 0, eval.FnVarArgs)
	reg("SORTBY", fnSortby, 0, eval.FnVarArgs)
	reg("SETUNION", fnSetunion, 0, eval.FnVarArgs)
	reg("SETDIFF", fnSetdiff, 0, eval.FnVarArgs)
	reg("SETINTER", fnSetinter, 0, eval.FnVarArgs)
	reg("REVWORDS", fnRevwords, 0, eval.FnVarArgs)
	reg("SHUFFLE", fnShuffle, 0, eval.FnVarArgs)
	reg("ITEMIZE", fnItemize, 0, eval.FnVarArgs)
	reg("SPLICE", fnSplice, 0, eval.FnVarArgs)
	reg("GRAB", fnGrab, 0, eval.FnVarArgs)
	reg("GRABALL", fnGraball, 0, eval.FnVarArgs)
	reg("CHOOSE", fnChoose, 0, eval.FnVarArgs)
	reg("GROUP", fnGroup, 0, eval.FnVarArgs)
	reg("WILDGREP", fnWildgrep, 0, eval.FnVarArgs)
	reg("LADD", fnLadd, 0, eval.FnVarArgs)
	reg("LAND", fnLand, 0, eval.FnVarArgs)
	reg("LOR", fnLor, 0, eval.FnVarArgs)
	reg("LMAX", fnLmax, 0, eval.FnVarArgs)
	reg("LMIN", fnLmin, 0, eval.FnVarArgs)
	reg("LAVG", fnLavg, 0, eval.FnVarArgs)
	reg("LSUB", fnLsub, 0, eval.FnVarArgs)
	reg("LMUL", fnLmul, 0, eval.FnVarArgs)
	reg("LDIV", fnLdiv, 0, eval.FnVarArgs)
	reg("LANDBOOL", fnLandbool, 0, eval.FnVarArgs)
	reg("LORBOOL", fnLorbool, 0, eval.FnVarArgs)
	reg("LREPLACE", fnLreplace, 0, eval.FnVarArgs)
	reg("LEDIT", fnLedit, 0, eval.FnVarArgs)
	reg("MERGE", fnMerge, 3, 0)
	reg("LISTMATCH", fnListmatch, 0, eval.FnVarArgs)
	reg("NUMMATCH", fnNummatch, 0, eval.FnVarArgs)
	reg("NUMMEMBER", fnNummember, 0, eval.FnVarArgs)
	reg("ALPHAMAX", fnAlphamax, 0, eval.FnVarArgs)
	reg("ALPHAMIN", fnAlphamin, 0, eval.FnVarArgs)
	reg("RANDEXTRACT", fnRandextract, 0, eval.FnVarArgs)

	// Iteration
	reg("ITER", fnIter, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("PARSE", fnParse, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("ITER2", fnIter2, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("LOOP", fnLoop, 0, eval.FnVarArgs|eval.FnNoEval|eval.FnOutfx)
	reg("LIST", fnList, 0, eval.FnVarArgs|eval.FnNoEval|eval.FnOutfx)
	reg("LIST2", fnList2, 0, eval.FnVarArgs|eval.FnNoEval|eval.FnOutfx)
	reg("WHENTRUE", fnWhentrue, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("WHENFALSE", fnWhenfalse, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("WHENTRUE2", fnWhentrue2, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("WHENFALSE2", fnWhenfalse2, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("MAP", fnMap, 0, eval.FnVarArgs)
	reg("FILTER", fnFilter, 0, eval.FnVarArgs)
	reg("FILTERBOOL", fnFilterbool, 0, eval.FnVarArgs)
	reg("FOLD", fnFold, 0, eval.FnVarArgs)
	reg("FOREACH", fnForeach, 2, 0)
	reg("WHILE", fnWhile, 0, eval.FnVarArgs)
	reg("UNTIL", fnUntil, 0, eval.FnVarArgs)
	reg("STEP", fnStep, 0, eval.FnVarArgs)
	reg("MIX", fnMix, 0, eval.FnVarArgs)
	reg("MUNGE", fnMunge, 0, eval.FnVarArgs)
	reg("ILEV", fnIlev, 0, 0)
	reg("ITEXT", fnItext, 1, 0)
	reg("INUM", fnInum, 1, 0)
	reg("IBREAK", fnIbreak, 0, eval.FnVarArgs)

	// Conditionals
	reg("IF", fnIf, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("IFELSE", fnIfElse, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("SWITCH", fnSwitch, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("SWITCHALL", fnSwitchAll, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("CASE", fnCase, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("IFTRUE", fnIftrue, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("IFFALSE", fnIffalse, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("IFZERO", fnIfzero, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("USETRUE", fnUsetrue, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("USEFALSE", fnUsefalse, 0, eval.FnVarArgs|eval.FnNoEval)
	reg("ISTRUE", fnIstrue, 1, 0)
	reg("ISFALSE", fnIsfalse, 1, 0)
	reg("UDEFAULT", fnUdefault, 0, eval.FnVarArgs|eval.FnNoEval)

	// Objects and attributes
	reg("NAME", fnName, 1, 0)
	reg("FULLNAME", fnFullname, 1, 0)
	reg("NUM", fnNum, 1, 0)
	reg("LOC", fnLoc, 1, 0)
	reg("WHERE", fnWhere, 1, 0)
	reg("RLOC", fnRloc, 0, eval.FnVarArgs)
	reg("ROOM", fnRoom, 1, 0)
	reg("OWNER", fnOwner, 1, 0)
	reg("TYPE", fnType, 1, 0)
	reg("FLAGS", fnFlags, 1, 0)
	reg("HASFLAG", fnHasflag, 2, 0)
	reg("HASFLAGS", fnHasflags, 2, 0)
	reg("ANDFLAGS", fnAndflags, 2, 0)
	reg("ORFLAGS", fnOrflags, 2, 0)
	reg("HASPOWER", fnHaspower, 2, 0)
	reg("HASATTR", fnHasattr, 0, eval.FnVarArgs)
	reg("HASATTRP", fnHasattrp, 0, eval.FnVarArgs)
	reg("HASTYPE", fnHastype, 2, 0)
	reg("GET", fnGet, 1, 0)
	reg("GET_EVAL", fnGetEval, 1, 0)
	reg("XGET", fnXget, 2, 0)
	reg("V", fnV, 1, 0)
	reg("U", fnU, 0, eval.FnVarArgs)
	reg("ULOCAL", fnUlocal, 0, eval.FnVarArgs)
	reg("S", fnS, -1, 0)
	reg("SUBEVAL", fnSubeval, 1, eval.FnNoEval)
	reg("OBJEVAL", fnObjeval, 2, eval.FnNoEval)
	reg("DEFAULT", fnDefault, 2, eval.FnNoEval)
	reg("EDEFAULT", fnEdefault, 2, eval.FnNoEval)
	reg("CON", fnCon, 1, 0)
	reg("EXIT", fnExit, 1, 0)
	reg("NEXT", fnNext, 1, 0)
	reg("LCON", fnLcon, 1, 0)
	reg("LEXITS", fnLexits, 1, 0)
	reg("LATTR", fnLattr, 1, 0)
	reg("NATTR", fnNattr, 1, 0)
	reg("ATTRCNT", fnAttrcnt, 1, 0)
	reg("HOME", fnHome, 1, 0)
	reg("PARENT", fnParent, 1, 0)
	reg("LPARENT", fnLparent, 1, 0)
	reg("CHILDREN", fnChildren, 1, 0)
	reg("ZONE", fnZone, 1, 0)
	reg("INZONE", fnInzone, 1, 0)
	reg("ZWHO", fnZwho, 1, 0)
	reg("ZFUN", fnZfun, 0, eval.FnVarArgs)
	reg("CONTROLS", fnControls, 2, 0)
	reg("ELOCK", fnElock, 2, 0)
	reg("LOCK", fnLockFn, 1, 0)
	reg("MONEY", fnMoney, 1, 0)
	reg("OBJMEM", fnObjmem, 1, 0)
	reg("PLAYMEM", fnPlaymem, 1, 0)
	reg("GREP", fnGrep, 3, 0)
	reg("GREPI", fnGrepi, 3, 0)
	reg("FINDABLE", fnFindable, 2, 0)
	reg("SEES", fnSees, 2, 0)
	reg("VISIBLE", fnVisible, 2, 0)
	reg("XCON", fnXcon, 3, 0)
	reg("LCMDS", fnLcmds, 1, 0)
	reg("ISOBJID", fnIsobjid, 1, 0)
	reg("OBJID", fnObjid, 1, 0)
	reg("CREATETIME", fnCreatetime, 0, eval.FnVarArgs)
	reg("SINGLETIME", fnSingletime, 1, 0)
	reg("LROOMS", fnLrooms, 0, eval.FnVarArgs)
	reg("LASTACCESS", fnLastaccess, 1, 0)
	reg("LASTMOD", fnLastmod, 1, 0)
	reg("LASTCREATE", fnLastcreate, 2, 0)
	reg("ENTRANCES", fnEntrances, 0, eval.FnVarArgs)
	reg("LOCATE", fnLocate, 0, eval.FnVarArgs)
	reg("NEARBY", fnNearby, 2, 0)
	reg("PMATCH", fnPmatch, 1, 0)
	reg("PFIND", fnPfind, 1, 0)
	reg("SUBJ", fnSubj, 1, 0)
	reg("OBJ", fnObj, 1, 0)
	reg("POSS", fnPoss, 1, 0)
	reg("APOSS", fnAposs, 1, 0)

	// Pronoun substitution and literals
	reg("NULL", fnNull, 0, eval.FnVarArgs)
	reg("LIT", fnLit, -1, eval.FnNoEval)

	// Registers
	reg("SETQ", fnSetq, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("SETR", fnSetr, 2, eval.FnVarfx)
	reg("R", fnR, 1, 0)
	reg("LREGS", fnLregs, 0, eval.FnVarArgs)
	reg("QVARS", fnQvars, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("QSUB", fnQsub, 0, eval.FnVarArgs)
	reg("WILDMATCH", fnWildmatch, 3, eval.FnVarfx)

	// Object variables
	reg("X", fnX, 1, 0)
	reg("SETX", fnSetx, 2, eval.FnVarfx)
	reg("STORE", fnStore, 2, eval.FnVarfx)
	reg("XVARS", fnXvars, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("LET", fnLet, 0, eval.FnVarArgs|eval.FnNoEval|eval.FnVarfx)
	reg("LVARS", fnLvars, 0, eval.FnVarArgs)
	reg("CLEARVARS", fnClearvars, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("WILDPARSE", fnWildparse, 3, eval.FnVarfx)

	// Sandboxing
	reg("NOFX", fnNofx, 2, eval.FnNoEval)
	reg("UCALL", fnUcall, 0, eval.FnVarArgs)
	reg("SANDBOX", fnSandbox, 0, eval.FnVarArgs)
	reg("OBJCALL", fnObjcall, 0, eval.FnVarArgs)
	reg("LOCALIZE", fnLocalize, 1, eval.FnNoEval)
	reg("PRIVATE", fnPrivate, 1, eval.FnNoEval)
	reg("UPRIVATE", fnUprivate, 0, eval.FnVarArgs)

	// Regular expressions
	reg("REGMATCH", fnRegmatch, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("REGMATCHI", fnRegmatchi, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("REGPARSE", fnRegparse, 3, eval.FnVarfx)
	reg("REGPARSEI", fnRegparsei, 3, eval.FnVarfx)
	reg("REGEDIT", fnRegedit, 0, eval.FnVarArgs)
	reg("REGEDITI", fnRegediti, 0, eval.FnVarArgs)
	reg("REGEDITALL", fnRegeditall, 0, eval.FnVarArgs)
	reg("REGEDITALLI", fnRegeditalli, 0, eval.FnVarArgs)
	reg("REGRAB", fnRegrab, 0, eval.FnVarArgs)
	reg("REGRABI", fnRegrabi, 0, eval.FnVarArgs)
	reg("REGRABALL", fnRegraball, 0, eval.FnVarArgs)
	reg("REGRABALLI", fnRegraballi, 0, eval.FnVarArgs)
	reg("REGREP", fnRegrep, 0, eval.FnVarArgs)
	reg("REGREPI", fnRegrepi, 0, eval.FnVarArgs)

	// Stacks
	reg("PUSH", fnPush, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("POP", fnPop, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("PEEK", fnPeek, 0, eval.FnVarArgs)
	reg("TOSS", fnToss, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("POPN", fnPopn, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("EMPTY", fnEmpty, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("ITEMS", fnItems, 0, eval.FnVarArgs)
	reg("DUP", fnDup, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("SWAP", fnSwap, 0, eval.FnVarArgs|eval.FnStackfx)
	reg("LSTACK", fnLstack, 0, eval.FnVarArgs)

	// Structures
	reg("STRUCTURE", fnStructure, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("CONSTRUCT", fnConstruct, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("LOAD", fnLoadStruct, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("READ", fnReadStruct, 3, eval.FnVarfx)
	reg("WRITE", fnWriteStruct, 2, eval.FnDbfx)
	reg("DELIMIT", fnDelimit, 0, eval.FnVarArgs)
	reg("Z", fnZ, 2, 0)
	reg("MODIFY", fnModify, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("UNLOAD", fnUnload, 0, eval.FnVarArgs)
	reg("DESTRUCT", fnDestruct, 1, eval.FnVarfx)
	reg("UNSTRUCTURE", fnUnstructure, 1, eval.FnVarfx)
	reg("LSTRUCTURES", fnLstructures, 0, 0)
	reg("LINSTANCES", fnLinstances, 0, 0)

	// Grids
	reg("GRIDMAKE", fnGridmake, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("GRIDSIZE", fnGridsize, 0, 0)
	reg("GRIDSET", fnGridset, 0, eval.FnVarArgs|eval.FnVarfx)
	reg("GRID", fnGrid, 0, eval.FnVarArgs)

	// Side effects
	reg("PEMIT", fnPemit, 2, eval.FnOutfx)
	reg("REMIT", fnRemit, 2, eval.FnOutfx)
	reg("OEMIT", fnOemit, 2, eval.FnOutfx)
	reg("THINK", fnThink, 1, eval.FnOutfx)
	reg("SET", fnSet, 2, eval.FnDbfx)

	// SQL
	reg("SQL", fnSQL, 0, eval.FnVarArgs|eval.FnDbfx)
	reg("SQLESCAPE", fnSQLEscape, 1, 0)

	// Randomness
	reg("RAND", fnRand, 1, 0)
	reg("DIE", fnDie, 0, eval.FnVarArgs)
	reg("LRAND", fnLrand, 0, eval.FnVarArgs)

	// Time
	reg("TIME", fnTime, 0, 0)
	reg("SECS", fnSecs, 0, 0)
	reg("CONVSECS", fnConvsecs, 1, 0)
	reg("CONVTIME", fnConvtime, 1, 0)
	reg("TIMEFMT", fnTimefmt, 0, eval.FnVarArgs)
	reg("STARTTIME", fnStarttime, 0, 0)
	reg("RESTARTTIME", fnRestarttime, 0, 0)

	// Game and evaluator info
	reg("VERSION", fnVersion, 0, 0)
	reg("MUDNAME", fnMudname, 0, 0)
	reg("CONFIG", fnConfig, 1, 0)
	reg("FCOUNT", fnFcount, 0, 0)
	reg("FDEPTH", fnFdepth, 0, 0)
	reg("CCOUNT", fnCcount, 0, 0)
	reg("CDEPTH", fnCdepth, 0, 0)
	reg("COMMAND", fnCommand, 0, 0)
	reg("EVAL", fnEvalFn, 2, 0)
	reg("BEEP", fnBeep, 0, 0)
	reg("SEARCH", fnSearch, 0, eval.FnVarArgs)
	reg("STATS", fnStats, 0, eval.FnVarArgs)
	reg("HASMODULE", fnHasmodule, 1, 0)
	reg("RESTARTS", fnRestarts, 0, 0)
	reg("HEARS", fnHears, 2, 0)
	reg("KNOWS", fnKnows, 2, 0)
	reg("MOVES", fnMoves, 2, 0)
	reg("WRITABLE", fnWritable, 2, 0)
	reg("VALID", fnValid, 2, 0)

	// Layout
	reg("WRAP", fnWrap, 0, eval.FnVarArgs)
	reg("COLUMNS", fnColumns, 0, eval.FnVarArgs)
	reg("TABLE", fnTable, 0, eval.FnVarArgs)
	reg("TABLES", fnTables, 0, eval.FnVarArgs)
	reg("RTABLES", fnRtables, 0, eval.FnVarArgs)
	reg("CTABLES", fnCtables, 0, eval.FnVarArgs)

	// Aliases kept for softcode compatibility
	ctx.AliasFunction("MOD", "MODULO")
	ctx.AliasFunction("UFUN", "U")
	ctx.AliasFunction("LSEARCH", "SEARCH")
	ctx.AliasFunction("PICKRAND", "RANDEXTRACT")
	ctx.AliasFunction("NONZERO", "IFELSE")
	ctx.AliasFunction("TRUNCATE", "TRUNC")
	ctx.AliasFunction("IDLE", "NULL")
	ctx.AliasFunction("NUMWORDS", "WORDS")
}
